package middleware

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
)

// Timeout bounds each request by limit. The handler runs on its own
// goroutine with a derived deadline and writes into a buffer; if the
// deadline passes first the client gets a CANCELED problem (504) and
// whatever the handler writes afterwards is dropped. A handler panic is
// re-raised on the serving goroutine for Recovery. limit <= 0 disables it.
func Timeout(limit time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer cancel()

			pending := &pendingResponse{header: make(http.Header)}
			finished := make(chan any, 1)

			go func() {
				var recovered any
				defer func() { finished <- recovered }()
				defer func() { recovered = recover() }()
				next.ServeHTTP(pending, r.WithContext(ctx))
			}()

			select {
			case v := <-finished:
				if v != nil {
					panic(v)
				}
				pending.commit(w)
			case <-ctx.Done():
				pending.abandon()
				dto.WriteErrorResponse(w, r, fmt.Errorf("%w: request exceeded %s", domain.ErrCanceled, limit))
			}
		})
	}
}

// pendingResponse holds a handler's response until it is either committed
// to the real writer or abandoned after a timeout.
type pendingResponse struct {
	mu        sync.Mutex
	header    http.Header
	body      bytes.Buffer
	status    int
	abandoned bool
}

func (p *pendingResponse) Header() http.Header { return p.header }

func (p *pendingResponse) WriteHeader(code int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == 0 && !p.abandoned {
		p.status = code
	}
}

func (p *pendingResponse) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.abandoned {
		return 0, http.ErrHandlerTimeout
	}
	if p.status == 0 {
		p.status = http.StatusOK
	}
	return p.body.Write(b)
}

func (p *pendingResponse) abandon() {
	p.mu.Lock()
	p.abandoned = true
	p.mu.Unlock()
}

func (p *pendingResponse) commit(w http.ResponseWriter) {
	p.mu.Lock()
	defer p.mu.Unlock()

	maps.Copy(w.Header(), p.header)
	if p.status != 0 {
		w.WriteHeader(p.status)
	}
	if p.body.Len() > 0 {
		_, _ = w.Write(p.body.Bytes())
	}
}
