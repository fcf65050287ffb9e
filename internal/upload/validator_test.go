package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbonimpa/agrigate/internal/models"
)

const individualCSV = "firstName,lastName,nationalId,phone\n" +
	"Jean,Bosco,119908,0788000001\n" +
	"Claudine,Uwase,119909,0788000002\n"

const smeCSV = "firstName,lastName,nationalId,phone,smeCategory\n" +
	"Eric,Mugisha,119910,0788000003,2\n"

func assertCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, code, vErr.Code)
}

func TestSelectFile_WrongDeclaredType(t *testing.T) {
	b := NewBatch(0)

	err := b.SelectFile("list.txt", "text/plain", []byte(individualCSV))
	assertCode(t, err, ErrWrongType)
	assert.Equal(t, StateEmpty, b.State())
}

func TestSelectFile_TooLarge(t *testing.T) {
	b := NewBatch(0)

	big := make([]byte, 4*1024*1024)
	for i := range big {
		big[i] = 'a'
	}

	err := b.SelectFile("big.csv", "text/csv", big)
	assertCode(t, err, ErrTooLarge)
}

func TestSelectFile_BinaryContent(t *testing.T) {
	b := NewBatch(0)

	// PNG magic bytes with a CSV declared type
	binary := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x01}
	err := b.SelectFile("fake.csv", "text/csv", binary)
	assertCode(t, err, ErrWrongType)
}

func TestParseAndInspect_EmptyFile(t *testing.T) {
	b := NewBatch(0)
	require.NoError(t, b.SelectFile("empty.csv", "text/csv", []byte("firstName,lastName\n")))

	_, err := b.ParseAndInspect(models.BusinessIndividual)
	assertCode(t, err, ErrEmptyFile)
	assert.Equal(t, StateParsedInvalid, b.State())
}

func TestParseAndInspect_SchemaMismatch(t *testing.T) {
	b := NewBatch(0)
	require.NoError(t, b.SelectFile("sme.csv", "text/csv", []byte(smeCSV)))

	_, err := b.ParseAndInspect(models.BusinessIndividual)
	assertCode(t, err, ErrSchemaMismatch)
}

func TestParseAndInspect_SMETemplateWithSMEType(t *testing.T) {
	b := NewBatch(0)
	require.NoError(t, b.SelectFile("sme.csv", "text/csv", []byte(smeCSV)))

	count, err := b.ParseAndInspect(models.BusinessSME)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// The check is one-directional: an individual-shaped file uploaded while SME
// is selected passes local validation and is left to the backend's ingestion.
func TestParseAndInspect_IndividualTemplateWithSMEType(t *testing.T) {
	b := NewBatch(0)
	require.NoError(t, b.SelectFile("ind.csv", "text/csv", []byte(individualCSV)))

	count, err := b.ParseAndInspect(models.BusinessSME)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestParseAndInspect_ParseError(t *testing.T) {
	b := NewBatch(0)
	broken := "firstName,lastName\n\"unterminated,row\n"
	require.NoError(t, b.SelectFile("broken.csv", "text/csv", []byte(broken)))

	_, err := b.ParseAndInspect(models.BusinessIndividual)
	assertCode(t, err, ErrParse)
}

func TestParseAndInspect_TenRows(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("firstName,lastName,nationalId,phone\n")
	for i := 0; i < 10; i++ {
		sb.WriteString("Jean,Bosco,119908,0788000001\n")
	}

	b := NewBatch(0)
	require.NoError(t, b.SelectFile("ten.csv", "text/csv", []byte(sb.String())))

	count, err := b.ParseAndInspect(models.BusinessIndividual)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
	assert.Equal(t, StateParsedValid, b.State())
}

func TestRemoveFile_ResetsState(t *testing.T) {
	b := NewBatch(0)
	require.NoError(t, b.SelectFile("ind.csv", "text/csv", []byte(individualCSV)))
	_, err := b.ParseAndInspect(models.BusinessIndividual)
	require.NoError(t, err)
	require.Equal(t, 2, b.RowCount())

	b.RemoveFile()

	assert.Equal(t, StateEmpty, b.State())
	assert.Equal(t, 0, b.RowCount())
}

func TestSubmit_RefusedWithoutPrerequisites(t *testing.T) {
	calls := 0
	submit := func(ctx context.Context, serviceID string, bt models.BusinessType, fileBase64 string) error {
		calls++
		return nil
	}

	b := NewBatch(0)
	require.NoError(t, b.SelectFile("ind.csv", "text/csv", []byte(individualCSV)))
	_, err := b.ParseAndInspect(models.BusinessIndividual)
	require.NoError(t, err)

	// Missing service
	err = b.Submit(context.Background(), submit, "", models.BusinessIndividual)
	assertCode(t, err, ErrNotReady)

	// Missing business type
	err = b.Submit(context.Background(), submit, "svc-1", 0)
	assertCode(t, err, ErrNotReady)

	// File not validated
	fresh := NewBatch(0)
	err = fresh.Submit(context.Background(), submit, "svc-1", models.BusinessIndividual)
	assertCode(t, err, ErrNotReady)

	assert.Equal(t, 0, calls, "no refused attempt may reach the backend")
}

func TestSubmit_Success(t *testing.T) {
	var gotService, gotFile string
	var gotType models.BusinessType
	submit := func(ctx context.Context, serviceID string, bt models.BusinessType, fileBase64 string) error {
		gotService = serviceID
		gotType = bt
		gotFile = fileBase64
		return nil
	}

	b := NewBatch(0)
	require.NoError(t, b.SelectFile("ind.csv", "text/csv", []byte(individualCSV)))
	_, err := b.ParseAndInspect(models.BusinessIndividual)
	require.NoError(t, err)

	require.NoError(t, b.Submit(context.Background(), submit, "svc-1", models.BusinessIndividual))

	assert.Equal(t, StateSucceeded, b.State())
	assert.Equal(t, "svc-1", gotService)
	assert.Equal(t, models.BusinessIndividual, gotType)

	decoded, decErr := base64.StdEncoding.DecodeString(gotFile)
	require.NoError(t, decErr)
	assert.Equal(t, individualCSV, string(decoded))
}

func TestSubmit_BackendFailure(t *testing.T) {
	backendErr := errors.New("ingestion refused")
	submit := func(ctx context.Context, serviceID string, bt models.BusinessType, fileBase64 string) error {
		return backendErr
	}

	b := NewBatch(0)
	require.NoError(t, b.SelectFile("ind.csv", "text/csv", []byte(individualCSV)))
	_, err := b.ParseAndInspect(models.BusinessIndividual)
	require.NoError(t, err)

	err = b.Submit(context.Background(), submit, "svc-1", models.BusinessIndividual)
	assert.ErrorIs(t, err, backendErr)
	assert.Equal(t, StateFailed, b.State())
}
