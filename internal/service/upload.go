package service

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"glrfill/internal/domain"
)

// CheckUpload validates an uploaded file against its slot: extension, size
// and detected content. A maxBytes of zero or less disables the size check.
func CheckUpload(kind domain.FileKind, u domain.Upload, maxBytes int64) error {
	ext := strings.ToLower(filepath.Ext(u.Name))
	if want := domain.AllowedExtensions[kind]; ext != want {
		return fmt.Errorf("%w: %s %q must be a %s file", domain.ErrUnsupportedFileType, kind, u.Name, want)
	}

	if maxBytes > 0 && int64(len(u.Data)) > maxBytes {
		return fmt.Errorf("%w: %q is %d bytes", domain.ErrFileTooLarge, u.Name, len(u.Data))
	}

	if !contentMatches(kind, u.Data) {
		return fmt.Errorf("%w: %q content is %s", domain.ErrUnsupportedFileType, u.Name, mimetype.Detect(u.Data).String())
	}
	return nil
}

func contentMatches(kind domain.FileKind, data []byte) bool {
	switch kind {
	case domain.FileKindReport:
		return mimetype.Detect(data).Is("application/pdf")
	case domain.FileKindTemplate:
		// .docx detects as its own type whose ancestor is application/zip
		for m := mimetype.Detect(data); m != nil; m = m.Parent() {
			if m.Is("application/zip") {
				return true
			}
		}
	}
	return false
}
