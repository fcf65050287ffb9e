package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mbonimpa/agrigate/internal/models"
)

// MaxFileBytes is the upload size ceiling.
const MaxFileBytes = 3 * 1024 * 1024

// smeOnlyColumn is the header column that only SME rows carry. Its presence
// while the INDIVIDUAL business type is selected marks a template mismatch.
// The converse (an individual-shaped file uploaded as SME) is deliberately
// not checked; the backend's ingestion catches it.
const smeOnlyColumn = "smeCategory"

// ErrorCode classifies why an upload attempt was refused.
type ErrorCode string

const (
	ErrWrongType      ErrorCode = "WRONG_TYPE"
	ErrTooLarge       ErrorCode = "TOO_LARGE"
	ErrEmptyFile      ErrorCode = "EMPTY_FILE"
	ErrSchemaMismatch ErrorCode = "SCHEMA_MISMATCH"
	ErrParse          ErrorCode = "PARSE_ERROR"
	ErrNotReady       ErrorCode = "NOT_READY"
)

// ValidationError is a pre-submission refusal. It never reaches the backend.
type ValidationError struct {
	Code    ErrorCode
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// State tracks a batch through a single upload attempt.
type State int

const (
	StateEmpty State = iota
	StateFileSelected
	StateParsedValid
	StateParsedInvalid
	StateSubmitting
	StateSucceeded
	StateFailed
)

// SubmitFunc delivers a validated batch to the backend.
type SubmitFunc func(ctx context.Context, serviceID string, businessType models.BusinessType, fileBase64 string) error

// Batch is one upload attempt: Empty -> FileSelected -> Parsed{valid|invalid}
// -> Submitting -> {Succeeded, Failed}. The row count it reports is a
// user-facing preview only; the backend's ingestion decides what is accepted.
type Batch struct {
	maxBytes int64
	state    State
	fileName string
	contents []byte
	rowCount int
}

// NewBatch creates an empty batch with the given size ceiling.
// A non-positive limit falls back to MaxFileBytes.
func NewBatch(maxBytes int64) *Batch {
	if maxBytes <= 0 {
		maxBytes = MaxFileBytes
	}
	return &Batch{maxBytes: maxBytes, state: StateEmpty}
}

// State returns the batch's current lifecycle state.
func (b *Batch) State() State { return b.state }

// RowCount returns the parsed data-row count, zero until a successful parse.
func (b *Batch) RowCount() int { return b.rowCount }

// SelectFile validates and attaches a file to the batch. The declared type
// must be CSV and the sniffed content must be textual; size is capped before
// any parsing happens.
func (b *Batch) SelectFile(name, declaredType string, contents []byte) error {
	if !isCSVType(declaredType) {
		return &ValidationError{Code: ErrWrongType, Message: "only CSV files can be uploaded"}
	}
	if int64(len(contents)) > b.maxBytes {
		return &ValidationError{Code: ErrTooLarge, Message: fmt.Sprintf("file exceeds the %d byte limit", b.maxBytes)}
	}
	if !isTextual(contents) {
		return &ValidationError{Code: ErrWrongType, Message: "file content is not text"}
	}

	b.fileName = name
	b.contents = contents
	b.rowCount = 0
	b.state = StateFileSelected
	return nil
}

// ParseAndInspect parses the selected CSV and checks its header shape against
// the chosen business type. On success the data-row count is recorded and
// returned.
func (b *Batch) ParseAndInspect(businessType models.BusinessType) (int, error) {
	if b.state == StateEmpty {
		return 0, &ValidationError{Code: ErrNotReady, Message: "no file selected"}
	}

	records, err := csv.NewReader(bytes.NewReader(b.contents)).ReadAll()
	if err != nil {
		b.state = StateParsedInvalid
		return 0, &ValidationError{Code: ErrParse, Message: "file could not be parsed as CSV"}
	}
	if len(records) < 2 {
		b.state = StateParsedInvalid
		return 0, &ValidationError{Code: ErrEmptyFile, Message: "file has no data rows"}
	}

	if businessType == models.BusinessIndividual && headerHasColumn(records[0], smeOnlyColumn) {
		b.state = StateParsedInvalid
		return 0, &ValidationError{
			Code:    ErrSchemaMismatch,
			Message: "file uses the SME template but Individual was selected",
		}
	}

	b.rowCount = len(records) - 1
	b.state = StateParsedValid
	return b.rowCount, nil
}

// RemoveFile clears the selected file and resets the row count, returning
// the batch to the empty state.
func (b *Batch) RemoveFile() {
	b.fileName = ""
	b.contents = nil
	b.rowCount = 0
	b.state = StateEmpty
}

// Submit delivers the batch through submit. It refuses, without calling out,
// unless a service and business type are chosen and the file parsed valid.
// A backend failure moves the batch to Failed and is returned as-is so the
// caller can surface the message; it is never a fault.
func (b *Batch) Submit(ctx context.Context, submit SubmitFunc, serviceID string, businessType models.BusinessType) error {
	if serviceID == "" {
		return &ValidationError{Code: ErrNotReady, Message: "a service must be selected"}
	}
	if businessType != models.BusinessIndividual && businessType != models.BusinessSME {
		return &ValidationError{Code: ErrNotReady, Message: "a business type must be selected"}
	}
	if b.state != StateParsedValid {
		return &ValidationError{Code: ErrNotReady, Message: "a validated file is required"}
	}

	b.state = StateSubmitting
	encoded := base64.StdEncoding.EncodeToString(b.contents)
	if err := submit(ctx, serviceID, businessType, encoded); err != nil {
		b.state = StateFailed
		return err
	}

	b.state = StateSucceeded
	return nil
}

// isCSVType checks the declared MIME type of the selected file.
func isCSVType(declaredType string) bool {
	switch strings.ToLower(strings.TrimSpace(declaredType)) {
	case "text/csv", "application/csv", "application/vnd.ms-excel":
		return true
	default:
		return false
	}
}

// isTextual sniffs the content to reject binaries renamed to .csv. Every
// text format mimetype detects descends from text/plain.
func isTextual(contents []byte) bool {
	if len(contents) == 0 {
		return true
	}
	for m := mimetype.Detect(contents); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// headerHasColumn does a case-insensitive match of a header field, tolerating
// surrounding whitespace.
func headerHasColumn(header []string, column string) bool {
	for _, field := range header {
		if strings.EqualFold(strings.TrimSpace(field), column) {
			return true
		}
	}
	return false
}
