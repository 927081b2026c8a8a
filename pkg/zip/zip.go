// Package zip bundles in-memory files into a zip archive.
package zip

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

type Entry struct {
	Filename string
	Data     []byte
	Modified time.Time
}

// Write streams entries into w as a zip archive. Names are reduced to a
// base name and made unique with a numeric suffix.
func Write(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	seen := make(map[string]int, len(entries))
	for _, e := range entries {
		name := uniqueName(seen, cleanName(e.Filename))
		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: e.Modified}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("zip: create %s: %w", name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("zip: write %s: %w", name, err)
		}
	}
	return zw.Close()
}

func cleanName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}

func uniqueName(seen map[string]int, name string) string {
	n := seen[name]
	seen[name] = n + 1
	if n == 0 {
		return name
	}
	ext := path.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n+1, ext)
}
