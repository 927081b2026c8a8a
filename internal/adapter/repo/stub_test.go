package repo

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type call struct {
	query string
	args  []any
}

// stubExecutor answers every query with the next queued result.
type stubExecutor struct {
	calls   []call
	rows    [][][]any
	rowErrs []error
	execTag pgconn.CommandTag
	execErr error
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.calls = append(s.calls, call{query: query, args: args})
	return s.execTag, s.execErr
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	s.calls = append(s.calls, call{query: query, args: args})
	vals, err := s.next()
	if err != nil {
		return stubRow{err: err}
	}
	if len(vals) == 0 {
		return stubRow{err: pgx.ErrNoRows}
	}
	return stubRow{values: vals[0]}
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	s.calls = append(s.calls, call{query: query, args: args})
	vals, err := s.next()
	if err != nil {
		return nil, err
	}
	return &stubRows{values: vals, idx: -1}, nil
}

func (s *stubExecutor) next() ([][]any, error) {
	if len(s.rowErrs) > 0 {
		err := s.rowErrs[0]
		s.rowErrs = s.rowErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if len(s.rows) == 0 {
		return nil, nil
	}
	v := s.rows[0]
	s.rows = s.rows[1:]
	return v, nil
}

type stubRow struct {
	values []any
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

type stubRows struct {
	values [][]any
	idx    int
}

func (r *stubRows) Close()                                       {}
func (r *stubRows) Err() error                                   { return nil }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Next() bool {
	r.idx++
	return r.idx < len(r.values)
}
func (r *stubRows) Scan(dest ...any) error { return assign(r.values[r.idx], dest) }
func (r *stubRows) Values() ([]any, error) { return r.values[r.idx], nil }
func (r *stubRows) RawValues() [][]byte    { return nil }
func (r *stubRows) Conn() *pgx.Conn        { return nil }

// assign copies src into dest pointers, converting between named and
// underlying types the way pgx does. nil leaves the zero value.
func assign(src []any, dest []any) error {
	if len(src) != len(dest) {
		return fmt.Errorf("scan: got %d values for %d destinations", len(src), len(dest))
	}
	for i := range dest {
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return errors.New("scan: destination must be a non-nil pointer")
		}
		target := dv.Elem()
		if src[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		sv := reflect.ValueOf(src[i])
		if target.Kind() == reflect.Pointer {
			p := reflect.New(target.Type().Elem())
			if !sv.Type().ConvertibleTo(p.Elem().Type()) {
				return fmt.Errorf("scan: cannot assign %T to %s", src[i], target.Type())
			}
			p.Elem().Set(sv.Convert(p.Elem().Type()))
			target.Set(p)
			continue
		}
		if !sv.Type().ConvertibleTo(target.Type()) {
			return fmt.Errorf("scan: cannot assign %T to %s", src[i], target.Type())
		}
		target.Set(sv.Convert(target.Type()))
	}
	return nil
}
