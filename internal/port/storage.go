package port

import (
	"context"
	"io"

	"senstosales/internal/domain"
)

// UploadInput encapsulates the parameters needed to upload an object.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts cloud object storage operations.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
}

// InvoiceArchive keeps an off-database copy of every committed invoice.
// It is only called after commit, never while the write lock is held.
type InvoiceArchive interface {
	Archive(ctx context.Context, inv *domain.GSTInvoice) error
}
