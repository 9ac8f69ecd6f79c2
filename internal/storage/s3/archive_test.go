package s3_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"senstosales/internal/domain"
	"senstosales/internal/port"
	"senstosales/internal/storage/s3"
	"senstosales/mocks"
)

func TestArchiveKey(t *testing.T) {
	inv := &domain.GSTInvoice{InvoiceNumber: "INV/2025-26/007", InvoiceDate: "2026-02-10"}
	assert.Equal(t, "invoices/2025-26/INV_2025-26_007.json", s3.ArchiveKey("invoices", inv))

	inv.InvoiceDate = "garbage"
	assert.Equal(t, "unknown/INV_2025-26_007.json", s3.ArchiveKey("", inv))
}

func TestInvoiceArchive_UploadsJSON(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	archive := s3.NewInvoiceArchive(storage, "ledger-bucket", "/invoices/")
	inv := &domain.GSTInvoice{
		InvoiceNumber: "INV/2025-26/001",
		InvoiceDate:   "2025-07-02",
		Total:         decimal.RequireFromString("14160.00"),
	}

	var body []byte
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "ledger-bucket" &&
			in.Key == "invoices/2025-26/INV_2025-26_001.json" &&
			in.ContentType == "application/json"
	})).Run(func(args mock.Arguments) {
		body, _ = io.ReadAll(args.Get(1).(port.UploadInput).Body)
	}).Return(&port.UploadOutput{Location: "s3://ledger-bucket/x"}, nil)

	require.NoError(t, archive.Archive(context.Background(), inv))
	assert.Contains(t, string(body), `"invoice_number":"INV/2025-26/001"`)
	storage.AssertExpectations(t)
}

func TestInvoiceArchive_PropagatesUploadError(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	archive := s3.NewInvoiceArchive(storage, "b", "invoices")
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	err := archive.Archive(context.Background(), &domain.GSTInvoice{InvoiceNumber: "INV/2025-26/001"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNoopArchive(t *testing.T) {
	assert.NoError(t, s3.NewNoopArchive().Archive(context.Background(), &domain.GSTInvoice{}))
}
