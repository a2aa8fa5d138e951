package accounts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-accounts-service/internal/app/fanout"
	"github.com/jsamuelsen11/go-accounts-service/internal/app/runtime"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain/account"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain/result"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

// defaultBatchWorkers bounds concurrent repository reads in GetAccounts.
const defaultBatchWorkers = 8

// Batch is the payload of GetAccounts. Accounts holds the found accounts in
// request order; Missing lists identities with no account.
type Batch struct {
	Accounts []account.Account
	Missing  []uuid.UUID
}

// Handlers implements the account commands and queries against an
// AccountRepository. It holds no per-request state.
type Handlers struct {
	repo         ports.AccountRepository
	logger       *slog.Logger
	now          func() time.Time
	batchWorkers int
}

// Option configures Handlers.
type Option func(*Handlers)

// WithClock overrides the time source used to stamp accounts.
func WithClock(now func() time.Time) Option {
	return func(h *Handlers) {
		h.now = now
	}
}

// WithBatchWorkers sets the GetAccounts fan-out width. Values below 1 are ignored.
func WithBatchWorkers(n int) Option {
	return func(h *Handlers) {
		if n >= 1 {
			h.batchWorkers = n
		}
	}
}

// NewHandlers creates Handlers backed by repo.
func NewHandlers(repo ports.AccountRepository, logger *slog.Logger, opts ...Option) *Handlers {
	h := &Handlers{
		repo:         repo,
		logger:       logger,
		now:          time.Now,
		batchWorkers: defaultBatchWorkers,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers every account handler with reg. A returned error
// means the registry already handles one of the request types.
func Register(reg *runtime.Registry, repo ports.AccountRepository, logger *slog.Logger, opts ...Option) error {
	h := NewHandlers(repo, logger, opts...)

	return errors.Join(
		runtime.Register(reg, h.CreateAccount),
		runtime.Register(reg, h.RenameAccount),
		runtime.Register(reg, h.DeleteAccount),
		runtime.Register(reg, h.GetAccount),
		runtime.Register(reg, h.GetAccounts),
	)
}

// CreateAccount stores a new account and returns its identity.
func (h *Handlers) CreateAccount(ctx context.Context, cmd CreateAccount) result.Result[uuid.UUID] {
	if err := cmd.validate(); err != nil {
		return result.Failure[uuid.UUID](err)
	}

	acct, err := account.New(cmd.ID(), cmd.Name(), h.now())
	if err != nil {
		return result.Failure[uuid.UUID](err)
	}

	res := h.repo.Add(ctx, acct)
	if res.IsSuccess() {
		h.logger.InfoContext(ctx, "account created", slog.String("account_id", acct.ID.String()))
	}
	return res
}

// RenameAccount changes an account's name and returns the updated account.
func (h *Handlers) RenameAccount(ctx context.Context, cmd RenameAccount) result.Result[account.Account] {
	if err := cmd.validate(); err != nil {
		return result.Failure[account.Account](err)
	}

	current := h.repo.Get(ctx, cmd.ID())
	if current.IsFailure() {
		return current
	}

	renamed, err := current.Payload().Renamed(cmd.Name(), h.now())
	if err != nil {
		return result.Failure[account.Account](err)
	}

	if res := h.repo.Update(ctx, renamed); res.IsFailure() {
		return result.Propagate[account.Account](res)
	}

	h.logger.InfoContext(ctx, "account renamed", slog.String("account_id", renamed.ID.String()))
	return result.Success(renamed)
}

// DeleteAccount removes an account. Deleting an absent account fails with
// NOT_FOUND.
func (h *Handlers) DeleteAccount(ctx context.Context, cmd DeleteAccount) result.Result[result.Empty] {
	if err := cmd.validate(); err != nil {
		return result.Failure[result.Empty](err)
	}

	res := h.repo.Remove(ctx, cmd.ID())
	if res.IsSuccess() {
		h.logger.InfoContext(ctx, "account deleted", slog.String("account_id", cmd.ID().String()))
	}
	return res
}

// GetAccount returns the repository's answer unchanged.
func (h *Handlers) GetAccount(ctx context.Context, q GetAccount) result.Result[account.Account] {
	if err := q.validate(); err != nil {
		return result.Failure[account.Account](err)
	}
	return h.repo.Get(ctx, q.ID())
}

// GetAccounts looks up several accounts concurrently. NOT_FOUND for an
// identity is reported in Batch.Missing; any other failure fails the whole
// query with the first such failure in request order.
func (h *Handlers) GetAccounts(ctx context.Context, q GetAccounts) result.Result[Batch] {
	if err := q.validate(); err != nil {
		return result.Failure[Batch](err)
	}

	ids := q.IDs()
	lookups := fanout.Map(ctx, h.batchWorkers, ids, func(ctx context.Context, id uuid.UUID) (account.Account, error) {
		return h.repo.Get(ctx, id).Get()
	})

	batch := Batch{Accounts: make([]account.Account, 0, len(ids))}
	for i, lookup := range lookups {
		switch {
		case lookup.Err == nil:
			batch.Accounts = append(batch.Accounts, lookup.Value)
		case errors.Is(lookup.Err, domain.ErrNotFound):
			batch.Missing = append(batch.Missing, ids[i])
		default:
			h.logger.ErrorContext(ctx, "batch account lookup failed",
				slog.String("operation", "GetAccounts"),
				slog.String("account_id", ids[i].String()),
				slog.Any("error", lookup.Err),
			)
			return result.Failure[Batch](lookup.Err)
		}
	}
	return result.Success(batch)
}
