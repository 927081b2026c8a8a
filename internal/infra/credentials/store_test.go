package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubExecutor struct {
	token   string
	err     error
	queried int
	exec    struct {
		query string
		args  []any
	}
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.exec.query = query
	s.exec.args = args
	return pgconn.CommandTag{}, s.err
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	s.queried++
	return stubRow{token: s.token, err: s.err}
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type stubRow struct {
	token string
	err   error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) == 0 {
		return errors.New("no dest")
	}
	ptr, ok := dest[0].(*string)
	if !ok {
		return errors.New("invalid dest")
	}
	*ptr = r.token
	return nil
}

func TestHeyGenAPIKey(t *testing.T) {
	store := NewStore(&stubExecutor{token: " hg-123 "})
	key, err := store.HeyGenAPIKey(context.Background())
	if err != nil {
		t.Fatalf("HeyGenAPIKey error: %v", err)
	}
	if key != "hg-123" {
		t.Fatalf("expected hg-123, got %q", key)
	}
}

func TestTokenNoRows(t *testing.T) {
	store := NewStore(&stubExecutor{err: pgx.ErrNoRows})
	key, err := store.OpenAIAPIKey(context.Background())
	if err != nil {
		t.Fatalf("OpenAIAPIKey error: %v", err)
	}
	if key != "" {
		t.Fatalf("expected empty key, got %q", key)
	}
}

func TestTokenPropagatesErrors(t *testing.T) {
	store := NewStore(&stubExecutor{err: errors.New("conn reset")})
	if _, err := store.GeminiAPIKey(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestResolvePrefersEnvironment(t *testing.T) {
	exec := &stubExecutor{token: "stored"}
	store := NewStore(exec)
	key, err := store.Resolve(context.Background(), ProviderHeyGen, " from-env ")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if key != "from-env" {
		t.Fatalf("expected from-env, got %q", key)
	}
	if exec.queried != 0 {
		t.Fatalf("expected no query when env is set, got %d", exec.queried)
	}

	key, err = store.Resolve(context.Background(), ProviderHeyGen, "")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if key != "stored" {
		t.Fatalf("expected stored, got %q", key)
	}
}

func TestResolveNilStore(t *testing.T) {
	var store *Store
	key, err := store.Resolve(context.Background(), ProviderHeyGen, "")
	if err != nil || key != "" {
		t.Fatalf("expected empty key without store, got %q %v", key, err)
	}
}

func TestSet(t *testing.T) {
	exec := &stubExecutor{}
	store := NewStore(exec)
	if err := store.Set(context.Background(), "HeyGen", "secret"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if len(exec.exec.args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(exec.exec.args))
	}
	if v, ok := exec.exec.args[0].(string); !ok || v != ProviderHeyGen {
		t.Fatalf("expected provider heygen, got %T %v", exec.exec.args[0], exec.exec.args[0])
	}
	if v, ok := exec.exec.args[1].(string); !ok || v != "secret" {
		t.Fatalf("expected secret argument, got %T %v", exec.exec.args[1], exec.exec.args[1])
	}
}

func TestSetRejectsInvalidInput(t *testing.T) {
	store := NewStore(&stubExecutor{})
	if err := store.Set(context.Background(), ProviderOpenAI, " "); err == nil {
		t.Fatal("expected error for empty key")
	}
	if err := store.Set(context.Background(), "qwen", "secret"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
