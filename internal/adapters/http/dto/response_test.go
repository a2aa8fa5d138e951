package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain/account"
)

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

func testAccount(t *testing.T, name string) account.Account {
	t.Helper()

	a, err := account.New(uuid.New(), name, testTime)
	if err != nil {
		t.Fatalf("account.New() error = %v", err)
	}
	return a
}

func TestToAccountResponse(t *testing.T) {
	t.Parallel()

	a := testAccount(t, "Alice")
	got := dto.ToAccountResponse(&a)

	if got.ID != a.ID.String() {
		t.Errorf("ID = %q, want %q", got.ID, a.ID.String())
	}
	if got.Name != "Alice" {
		t.Errorf("Name = %q, want %q", got.Name, "Alice")
	}
	if got.CreatedAt != "2026-02-12T15:04:05Z" {
		t.Errorf("CreatedAt = %q, want RFC 3339", got.CreatedAt)
	}
}

func TestToAccountBatchResponse(t *testing.T) {
	t.Parallel()

	found := []account.Account{testAccount(t, "Alice"), testAccount(t, "Bob")}
	missing := []uuid.UUID{uuid.New()}

	got := dto.ToAccountBatchResponse(found, missing)

	if got.Count != 2 || len(got.Accounts) != 2 {
		t.Errorf("Count = %d, len(Accounts) = %d, want 2", got.Count, len(got.Accounts))
	}
	if got.Accounts[1].Name != "Bob" {
		t.Errorf("Accounts[1].Name = %q, want request order preserved", got.Accounts[1].Name)
	}
	if len(got.Missing) != 1 || got.Missing[0] != missing[0].String() {
		t.Errorf("Missing = %v, want [%s]", got.Missing, missing[0])
	}
}

func TestToAccountBatchResponse_EmptyEncodesArrays(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(dto.ToAccountBatchResponse(nil, nil))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	want := `{"accounts":[],"missing":[],"count":0}`
	if string(raw) != want {
		t.Errorf("json = %s, want %s", raw, want)
	}
}
