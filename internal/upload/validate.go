// Package upload validates attachment metadata before storage is involved.
// Only metadata is checked here; byte transfer belongs to the object store.
package upload

import (
	"fmt"
	"strings"
)

// Limits applied to a single upload batch.
const (
	MaxFileSizeBytes = 10 << 20 // 10 MiB per file
	MaxFilesPerBatch = 5
)

var allowedMimeTypes = map[string]struct{}{
	"image/png":          {},
	"image/jpeg":         {},
	"image/gif":          {},
	"application/pdf":    {},
	"text/plain":         {},
	"text/csv":           {},
	"application/zip":    {},
	"application/json":   {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       {},
}

// FileMeta describes one file offered for upload.
type FileMeta struct {
	FileName  string
	MimeType  string
	SizeBytes int64
}

// Validate checks a batch against the allow-list and size limits. The
// returned map carries one message per offending file, keyed by file name;
// batch-level problems use the "files" key. A nil map means the batch is
// acceptable.
func Validate(files []FileMeta) map[string]string {
	problems := make(map[string]string)
	if len(files) > MaxFilesPerBatch {
		problems["files"] = fmt.Sprintf("at most %d files per upload", MaxFilesPerBatch)
	}
	for _, f := range files {
		name := f.FileName
		if strings.TrimSpace(name) == "" {
			problems["files"] = "file name required"
			continue
		}
		if _, ok := allowedMimeTypes[strings.ToLower(f.MimeType)]; !ok {
			problems[name] = fmt.Sprintf("type %q not allowed", f.MimeType)
			continue
		}
		if f.SizeBytes <= 0 {
			problems[name] = "file is empty"
			continue
		}
		if f.SizeBytes > MaxFileSizeBytes {
			problems[name] = fmt.Sprintf("exceeds %d byte limit", MaxFileSizeBytes)
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// Allowed reports whether a single MIME type passes the allow-list.
func Allowed(mimeType string) bool {
	_, ok := allowedMimeTypes[strings.ToLower(mimeType)]
	return ok
}
