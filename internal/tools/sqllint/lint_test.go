package main

import (
	"strings"
	"testing"
)

func TestLintFlagsMissingMarker(t *testing.T) {
	l := newLinter()
	src := "package q\n\nconst QBad = `select 1`\n\nconst Prompt = `Write a post with a strong hook`\n"
	if err := l.lintSource("q.go", src); err != nil {
		t.Fatalf("lintSource error: %v", err)
	}
	vs := l.finish()
	if len(vs) != 1 {
		t.Fatalf("expected 1 violation, got %d: %#v", len(vs), vs)
	}
	if vs[0].name != "QBad" || vs[0].line != 3 {
		t.Fatalf("unexpected violation: %#v", vs[0])
	}
}

func TestLintAcceptsMarkedQueries(t *testing.T) {
	l := newLinter()
	src := "package q\n\nconst QGood = `--sql 3f1c2a7e-8b4d-4c6a-9e21-5d7f0b8a1c34\nselect 1`\n"
	if err := l.lintSource("q.go", src); err != nil {
		t.Fatalf("lintSource error: %v", err)
	}
	if vs := l.finish(); len(vs) != 0 {
		t.Fatalf("expected no violations, got %#v", vs)
	}
}

func TestLintFlagsDuplicateMarkers(t *testing.T) {
	l := newLinter()
	a := "package q\n\nconst QA = `--sql 3f1c2a7e-8b4d-4c6a-9e21-5d7f0b8a1c34\nselect 1`\n"
	b := "package q\n\nconst QB = `--sql 3f1c2a7e-8b4d-4c6a-9e21-5d7f0b8a1c34\nselect 2`\n"
	if err := l.lintSource("a.go", a); err != nil {
		t.Fatalf("lintSource error: %v", err)
	}
	if err := l.lintSource("b.go", b); err != nil {
		t.Fatalf("lintSource error: %v", err)
	}
	vs := l.finish()
	if len(vs) != 1 {
		t.Fatalf("expected 1 violation, got %#v", vs)
	}
	if vs[0].name != "QB" || !strings.Contains(vs[0].message, "first used by QA") {
		t.Fatalf("unexpected violation: %#v", vs[0])
	}
}

func TestLintRepositoryQueries(t *testing.T) {
	l := newLinter()
	if err := l.lintTarget("../../sqlinline"); err != nil {
		t.Fatalf("lintTarget error: %v", err)
	}
	if vs := l.finish(); len(vs) != 0 {
		t.Fatalf("sqlinline violations: %#v", vs)
	}
	if len(l.markers) == 0 {
		t.Fatal("expected markers in sqlinline")
	}
}
