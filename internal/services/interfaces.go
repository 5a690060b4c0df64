package services

import (
	"context"
	"io"

	"github.com/tradeacademy/tradeacademy-api/pkg/storage"
)

// ObjectStorage is the slice of the storage client the services use.
// Narrowed to an interface so tests can run without an S3 endpoint.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Download(ctx context.Context, key string) (*storage.Object, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) string
}

// FileUpload carries a staged file into a mutation. Body reads the spooled
// bytes; the staging slot stays responsible for releasing them.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}
