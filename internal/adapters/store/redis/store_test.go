package redis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redisstore "github.com/jsamuelsen11/go-accounts-service/internal/adapters/store/redis"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/config"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

var key = ports.Key{Kind: "account", ID: "1"}

func newStore(t *testing.T) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return redisstore.New(rdb, "test:"), mr
}

func TestStore_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, mr := newStore(t)

	if _, err := s.Read(ctx, key); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Read(absent) error = %v, want ErrNotFound", err)
	}
	if err := s.Create(ctx, key, []byte(`{"name":"a"}`)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Create(ctx, key, []byte(`{"name":"b"}`)); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Create(dup) error = %v, want ErrConflict", err)
	}

	raw, err := mr.Get("test:account:1")
	if err != nil {
		t.Fatalf("miniredis Get: %v", err)
	}
	if raw != `{"name":"a"}` {
		t.Errorf("stored value = %q, want first write", raw)
	}

	if err := s.Replace(ctx, key, []byte(`{"name":"c"}`)); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	got, err := s.Read(ctx, key)
	if err != nil || string(got) != `{"name":"c"}` {
		t.Fatalf("Read() = %q, %v; want replaced value", got, err)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, key); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete(absent) error = %v, want ErrNotFound", err)
	}
	if err := s.Replace(ctx, key, []byte("{}")); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Replace(absent) error = %v, want ErrNotFound", err)
	}
	if mr.Exists("test:account:1") {
		t.Error("key still exists after Replace on absent key")
	}
}

func TestStore_HealthCheck(t *testing.T) {
	t.Parallel()

	s, mr := newStore(t)

	if err := s.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck() error = %v", err)
	}
	if s.Name() != "redis" {
		t.Errorf("Name() = %q, want redis", s.Name())
	}

	mr.Close()
	if err := s.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() = nil after server shutdown, want error")
	}
}

func TestStore_InfrastructureErrorIsNotTaxonomy(t *testing.T) {
	t.Parallel()

	s, mr := newStore(t)
	mr.Close()

	_, err := s.Read(context.Background(), key)
	if err == nil {
		t.Fatal("Read() error = nil, want connection error")
	}
	if _, ok := domain.KindOf(err); ok {
		t.Errorf("Read() error = %v, want raw infrastructure error", err)
	}
	if !errors.Is(domain.Normalize(err), domain.ErrUnavailable) {
		t.Errorf("Normalize(%v) is not ErrUnavailable", err)
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)

	rdb, err := redisstore.NewClient(context.Background(), &config.RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	_ = rdb.Close()

	mr.Close()
	if _, err := redisstore.NewClient(context.Background(), &config.RedisConfig{Addr: mr.Addr()}); err == nil {
		t.Error("NewClient() error = nil for closed server, want error")
	}
}
