// Package pdfinfo inspects a PDF on disk before it is uploaded, so an
// unreadable or non-PDF file is rejected locally instead of bouncing off
// the backend.
package pdfinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Info describes a PDF that passed preflight
type Info struct {
	Filename string
	SizeKB   int
	Pages    int
}

// Inspect validates that path points to a readable PDF and returns its
// basic shape. Any returned error is a local validation failure; nothing
// has touched the network.
func Inspect(path string) (Info, error) {
	if strings.TrimSpace(path) == "" {
		return Info{}, fmt.Errorf("no file chosen")
	}

	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, fmt.Errorf("file not found: %s", path)
		}
		return Info{}, fmt.Errorf("stat file: %w", err)
	}
	if stat.IsDir() {
		return Info{}, fmt.Errorf("%s is a directory", path)
	}
	if stat.Size() == 0 {
		return Info{}, fmt.Errorf("%s is empty", filepath.Base(path))
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("%s is not a readable PDF", filepath.Base(path))
	}
	defer f.Close()

	sizeKB := int(stat.Size() / 1024)
	if sizeKB == 0 {
		sizeKB = 1
	}

	return Info{
		Filename: filepath.Base(path),
		SizeKB:   sizeKB,
		Pages:    reader.NumPage(),
	}, nil
}
