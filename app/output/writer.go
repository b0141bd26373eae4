package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer owns the output directory. Feed documents are written through a
// temp file and renamed so a crashed run never leaves a truncated feed for
// the publisher to pick up.
type Writer struct {
	dir string
}

func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

func (w *Writer) Dir() string {
	return w.dir
}

// WriteFeed writes one source's feed document as <name>.xml.
func (w *Writer) WriteFeed(sourceName, rss string) error {
	return w.writeAtomic(sourceName+".xml", []byte(rss))
}

// WriteIndex writes the browsable index page.
func (w *Writer) WriteIndex(html string) error {
	return w.writeAtomic("index.html", []byte(html))
}

func (w *Writer) writeAtomic(name string, data []byte) error {
	target := filepath.Join(w.dir, name)

	tmp, err := os.CreateTemp(w.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", name, err)
	}

	return nil
}
