package pdfinfo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInspectRejections(t *testing.T) {
	dir := t.TempDir()

	emptyFile := filepath.Join(dir, "empty.pdf")
	if err := os.WriteFile(emptyFile, nil, 0644); err != nil {
		t.Fatal(err)
	}

	notPDF := filepath.Join(dir, "notes.pdf")
	if err := os.WriteFile(notPDF, []byte("just some text, no pdf header"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"empty path", "", "no file chosen"},
		{"whitespace path", "   ", "no file chosen"},
		{"missing file", filepath.Join(dir, "nope.pdf"), "file not found"},
		{"directory", dir, "is a directory"},
		{"empty file", emptyFile, "is empty"},
		{"not a pdf", notPDF, "not a readable PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Inspect(tt.path)
			if err == nil {
				t.Fatalf("Inspect(%q) succeeded, want error containing %q", tt.path, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Inspect(%q) error = %q, want it to contain %q", tt.path, err.Error(), tt.wantErr)
			}
		})
	}
}
