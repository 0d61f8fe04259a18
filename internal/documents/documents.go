// Package documents stores the supporting documents attached to a submission.
package documents

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"

	dErrors "cites/pkg/domain-errors"
)

// MaxSize is the largest document accepted, in bytes.
const MaxSize = 10 << 20

var allowedTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Store is an object store for document bodies.
type Store interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
}

// Validate checks a document before upload. Errors are field errors on "files".
func Validate(fileName, contentType string, size int) error {
	switch {
	case strings.TrimSpace(fileName) == "":
		return dErrors.NewField(dErrors.CodeValidation, "files", "file name is required")
	case size == 0:
		return dErrors.NewField(dErrors.CodeValidation, "files", "file is empty")
	case size > MaxSize:
		return dErrors.NewField(dErrors.CodeValidation, "files", "file is larger than 10MB")
	}
	if !slices.Contains(allowedTypes, contentType) {
		return dErrors.NewField(dErrors.CodeValidation, "files", fmt.Sprintf("file type %s is not accepted", contentType))
	}
	return nil
}

// NewKey builds a unique object key for a document under the owner's prefix.
func NewKey(owner, fileName string) string {
	return path.Join("supporting-documents", owner, uuid.NewString(), path.Base(strings.ReplaceAll(fileName, "\\", "/")))
}
