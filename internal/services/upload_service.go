package services

import (
	"context"
	"errors"

	"github.com/mbonimpa/agrigate/internal/logger"
	"github.com/mbonimpa/agrigate/internal/models"
	"github.com/mbonimpa/agrigate/internal/upload"
	"github.com/mbonimpa/agrigate/internal/upstream"
)

// UploadClient is the slice of the backend API the upload service needs.
type UploadClient interface {
	SubmitUpload(ctx context.Context, req upstream.UploadRequest) error
}

// UploadInput is one bulk-upload attempt: the file as received plus the
// service and business type the rows are meant for.
type UploadInput struct {
	FileName     string
	ContentType  string
	Contents     []byte
	ServiceID    string
	BusinessType models.BusinessType
}

// UploadService validates applicant CSV batches and submits them. Every call
// validates the file it was given; nothing is retained between requests, so a
// re-chosen business type is always checked against the current file.
type UploadService interface {
	// Validate runs the local pre-submission checks and returns the data-row
	// count. A refusal is an *upload.ValidationError.
	Validate(ctx context.Context, in UploadInput) (int, error)

	// Submit re-validates the input and delivers it to the backend. A local
	// refusal is an *upload.ValidationError and never reaches the backend;
	// a backend refusal is reported through the WorkflowResult.
	Submit(ctx context.Context, in UploadInput) (*WorkflowResult, error)
}

type uploadService struct {
	client   UploadClient
	maxBytes int64
	log      *logger.Logger
}

// NewUploadService creates a new instance of UploadService. A non-positive
// maxBytes falls back to the default upload size ceiling.
func NewUploadService(client UploadClient, maxBytes int64, log *logger.Logger) UploadService {
	return &uploadService{
		client:   client,
		maxBytes: maxBytes,
		log:      log,
	}
}

func (s *uploadService) Validate(ctx context.Context, in UploadInput) (int, error) {
	_, rows, err := s.inspect(in)
	return rows, err
}

func (s *uploadService) Submit(ctx context.Context, in UploadInput) (*WorkflowResult, error) {
	batch, rows, err := s.inspect(in)
	if err != nil {
		return nil, err
	}

	s.log.Info("Submitting applicant upload", map[string]interface{}{
		"service_id":    in.ServiceID,
		"business_type": in.BusinessType.Label(),
		"rows":          rows,
	})

	submit := func(ctx context.Context, serviceID string, businessType models.BusinessType, fileBase64 string) error {
		return s.client.SubmitUpload(ctx, upstream.UploadRequest{
			ServiceID:    serviceID,
			File:         fileBase64,
			BusinessType: businessType,
		})
	}

	err = batch.Submit(ctx, submit, in.ServiceID, in.BusinessType)
	var vErr *upload.ValidationError
	if errors.As(err, &vErr) {
		return nil, vErr
	}
	return workflowResult(err, "Applicants uploaded")
}

func (s *uploadService) inspect(in UploadInput) (*upload.Batch, int, error) {
	batch := upload.NewBatch(s.maxBytes)
	if err := batch.SelectFile(in.FileName, in.ContentType, in.Contents); err != nil {
		return nil, 0, err
	}

	rows, err := batch.ParseAndInspect(in.BusinessType)
	if err != nil {
		return nil, 0, err
	}
	return batch, rows, nil
}
