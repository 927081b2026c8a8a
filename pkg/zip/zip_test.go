package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestWriteCleansAndDedupesNames(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []Entry{
		{Filename: "../../etc/x.md", Data: []byte("one")},
		{Filename: "x.md", Data: []byte("two")},
		{Filename: "", Data: []byte("three")},
	})
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	want := map[string]string{"x.md": "one", "x-2.md": "two", "file": "three"}
	if len(zr.File) != len(want) {
		t.Fatalf("expected %d files, got %d", len(want), len(zr.File))
	}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, _ := io.ReadAll(rc)
		_ = rc.Close()
		if want[f.Name] != string(data) {
			t.Fatalf("%s = %q, want %q", f.Name, data, want[f.Name])
		}
	}
}
