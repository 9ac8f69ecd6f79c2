package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"senstosales/internal/domain"
	"senstosales/internal/port"
	"senstosales/internal/sequence"
)

type invoiceArchive struct {
	storage port.ObjectStorage
	bucket  string
	prefix  string
}

// NewInvoiceArchive stores each committed invoice as JSON under
// <prefix>/<financial year>/<invoice number>.json.
func NewInvoiceArchive(storage port.ObjectStorage, bucket, prefix string) port.InvoiceArchive {
	return &invoiceArchive{storage: storage, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// ArchiveKey is the object key an invoice is archived under. Slashes in the
// invoice number are replaced so that each invoice is a single object name.
func ArchiveKey(prefix string, inv *domain.GSTInvoice) string {
	fy := "unknown"
	if d, err := time.Parse(domain.DateLayout, inv.InvoiceDate); err == nil {
		fy = sequence.FinancialYear(d)
	}
	name := strings.ReplaceAll(inv.InvoiceNumber, "/", "_") + ".json"
	return path.Join(prefix, fy, name)
}

func (a *invoiceArchive) Archive(ctx context.Context, inv *domain.GSTInvoice) error {
	body, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("invoiceArchive.Archive: encoding %s: %w", inv.InvoiceNumber, err)
	}
	_, err = a.storage.Upload(ctx, port.UploadInput{
		Bucket:      a.bucket,
		Key:         ArchiveKey(a.prefix, inv),
		Body:        bytes.NewReader(body),
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("invoiceArchive.Archive: %w", err)
	}
	return nil
}

type noopArchive struct{}

// NewNoopArchive is used when no bucket is configured.
func NewNoopArchive() port.InvoiceArchive { return noopArchive{} }

func (noopArchive) Archive(context.Context, *domain.GSTInvoice) error { return nil }
