package document

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	documenterrors "go-pfund/internal/document/errors"
)

type fakeDocRepo struct {
	docs      []RequestDocument
	listErr   error
	createErr error
}

func (f *fakeDocRepo) Create(ctx context.Context, d *RequestDocument) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.docs = append(f.docs, *d)
	return nil
}

func (f *fakeDocRepo) FindByRequest(ctx context.Context, requestID uuid.UUID, domain string) ([]RequestDocument, error) {
	var out []RequestDocument
	for _, d := range f.docs {
		if d.RequestID == requestID && d.Domain == domain {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocRepo) ListTypes(ctx context.Context, requestID uuid.UUID, domain string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []string
	for _, d := range f.docs {
		if d.RequestID == requestID && d.Domain == domain {
			out = append(out, d.DocType)
		}
	}
	return out, nil
}

func TestService_Attach_RejectsUnknownType(t *testing.T) {
	svc := NewService(&fakeDocRepo{})
	_, err := svc.Attach(context.Background(), "loan", uuid.New(), uuid.New(), "SURAT_CINTA", "surat.pdf")
	assert.True(t, errors.Is(err, documenterrors.ErrUnknownDocType))

	// payslip belongs to the loan checklist only
	_, err = svc.Attach(context.Background(), "withdrawal", uuid.New(), uuid.New(), TypePayslip, "slip.pdf")
	assert.True(t, errors.Is(err, documenterrors.ErrUnknownDocType))
}

func TestService_IsComplete(t *testing.T) {
	repo := &fakeDocRepo{}
	svc := NewService(repo)
	requestID := uuid.New()
	uploader := uuid.New()
	ctx := context.Background()

	complete, missing, err := svc.IsComplete(ctx, "loan", requestID)
	assert.NoError(t, err)
	assert.False(t, complete)
	assert.ElementsMatch(t, []string{TypeIDCard, TypePayslip, TypeApplicationForm}, missing)

	_, err = svc.Attach(ctx, "loan", requestID, uploader, TypeIDCard, "ktp.jpg")
	assert.NoError(t, err)
	_, err = svc.Attach(ctx, "loan", requestID, uploader, TypePayslip, "slip.pdf")
	assert.NoError(t, err)

	complete, missing, err = svc.IsComplete(ctx, "loan", requestID)
	assert.NoError(t, err)
	assert.False(t, complete)
	assert.Equal(t, []string{TypeApplicationForm}, missing)

	_, err = svc.Attach(ctx, "loan", requestID, uploader, TypeApplicationForm, "formulir.pdf")
	assert.NoError(t, err)

	complete, missing, err = svc.IsComplete(ctx, "loan", requestID)
	assert.NoError(t, err)
	assert.True(t, complete)
	assert.Empty(t, missing)
}

func TestService_IsComplete_PerDomainChecklist(t *testing.T) {
	repo := &fakeDocRepo{}
	svc := NewService(repo)
	requestID := uuid.New()
	ctx := context.Background()

	_, err := svc.Attach(ctx, "withdrawal", requestID, uuid.New(), TypeIDCard, "ktp.jpg")
	assert.NoError(t, err)
	_, err = svc.Attach(ctx, "withdrawal", requestID, uuid.New(), TypeApplicationForm, "formulir.pdf")
	assert.NoError(t, err)

	complete, _, err := svc.IsComplete(ctx, "withdrawal", requestID)
	assert.NoError(t, err)
	assert.True(t, complete)

	// same uploads do not satisfy the loan checklist
	complete, missing, err := svc.IsComplete(ctx, "loan", requestID)
	assert.NoError(t, err)
	assert.False(t, complete)
	assert.NotEmpty(t, missing)
}

func TestService_IsComplete_RepoError(t *testing.T) {
	repo := &fakeDocRepo{listErr: errors.New("koneksi database terputus")}
	svc := NewService(repo)

	_, _, err := svc.IsComplete(context.Background(), "loan", uuid.New())
	assert.Error(t, err)
}
