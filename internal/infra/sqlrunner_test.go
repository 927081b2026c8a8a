package infra

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestExtractMarker(t *testing.T) {
	cases := []struct {
		name    string
		query   string
		marker  string
		body    string
		wantErr bool
	}{
		{
			name:   "valid",
			query:  "--sql 3f1c2a7e-8b4d-4c6a-9e21-5d7f0b8a1c34\nSELECT 1",
			marker: "3f1c2a7e-8b4d-4c6a-9e21-5d7f0b8a1c34",
			body:   "SELECT 1",
		},
		{
			name:   "leading whitespace",
			query:  "\n\t--sql 3f1c2a7e-8b4d-4c6a-9e21-5d7f0b8a1c34\n  SELECT 1\n",
			marker: "3f1c2a7e-8b4d-4c6a-9e21-5d7f0b8a1c34",
			body:   "SELECT 1",
		},
		{name: "missing marker", query: "SELECT 1", wantErr: true},
		{name: "uppercase uuid", query: "--sql 3F1C2A7E-8B4D-4C6A-9E21-5D7F0B8A1C34\nSELECT 1", wantErr: true},
		{name: "marker only", query: "--sql 3f1c2a7e-8b4d-4c6a-9e21-5d7f0b8a1c34", wantErr: true},
		{name: "empty", query: "   ", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			marker, body, err := ExtractMarker(tc.query)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got marker %q body %q", marker, body)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if marker != tc.marker || body != tc.body {
				t.Fatalf("got (%q, %q), want (%q, %q)", marker, body, tc.marker, tc.body)
			}
		})
	}
}

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(fmt.Errorf("find job: %w", pgx.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to match")
	}
	if IsNoRows(errors.New("boom")) {
		t.Fatalf("unexpected match for unrelated error")
	}
}
