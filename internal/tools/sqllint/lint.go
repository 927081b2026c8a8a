package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	sqlStartPattern   = regexp.MustCompile(`(?i)^(--sql\b|select\b|insert\b|update\b|delete\b|with\b)`)
	uuidMarkerPattern = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

type violation struct {
	file    string
	name    string
	line    int
	message string
}

type markerUse struct {
	file string
	name string
	line int
}

type linter struct {
	violations []violation
	markers    map[string][]markerUse
}

func newLinter() *linter {
	return &linter{markers: map[string][]markerUse{}}
}

func (l *linter) lintFile(path string) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return err
	}
	l.lintAST(fset, path, file)
	return nil
}

func (l *linter) lintSource(path, src string) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return err
	}
	l.lintAST(fset, path, file)
	return nil
}

func (l *linter) lintAST(fset *token.FileSet, path string, file *ast.File) {
	ast.Inspect(file, func(n ast.Node) bool {
		vs, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for _, value := range vs.Values {
			bl, ok := value.(*ast.BasicLit)
			if !ok || bl.Kind != token.STRING {
				continue
			}
			raw, err := unquote(bl.Value)
			if err != nil {
				continue
			}
			marker := firstLine(raw)
			if !sqlStartPattern.MatchString(marker) {
				continue
			}
			pos := fset.Position(bl.Pos())
			name := joinNames(vs.Names)
			if !uuidMarkerPattern.MatchString(marker) {
				l.violations = append(l.violations, violation{
					file:    path,
					line:    pos.Line,
					name:    name,
					message: "missing or invalid --sql <uuid> marker",
				})
				continue
			}
			l.markers[marker] = append(l.markers[marker], markerUse{file: path, name: name, line: pos.Line})
		}
		return true
	})
}

// finish reports collected violations plus every marker used more than once.
func (l *linter) finish() []violation {
	out := append([]violation(nil), l.violations...)
	markers := make([]string, 0, len(l.markers))
	for m := range l.markers {
		markers = append(markers, m)
	}
	sort.Strings(markers)
	for _, m := range markers {
		uses := l.markers[m]
		if len(uses) < 2 {
			continue
		}
		for _, u := range uses[1:] {
			out = append(out, violation{
				file:    u.file,
				line:    u.line,
				name:    u.name,
				message: "duplicate marker " + strings.TrimPrefix(m, "--sql ") + " (first used by " + uses[0].name + ")",
			})
		}
	}
	return out
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n\r \t")
	if idx := strings.IndexAny(s, "\n\r"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func unquote(v string) (string, error) {
	if len(v) == 0 {
		return v, nil
	}
	if v[0] == '`' {
		return v[1 : len(v)-1], nil
	}
	return strconv.Unquote(v)
}

func joinNames(idents []*ast.Ident) string {
	parts := make([]string, 0, len(idents))
	for _, ident := range idents {
		if ident == nil {
			continue
		}
		parts = append(parts, ident.Name)
	}
	return strings.Join(parts, ",")
}
