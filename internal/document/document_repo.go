package document

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=document_repo.go -destination=mock/document_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, d *RequestDocument) error
	FindByRequest(ctx context.Context, requestID uuid.UUID, domain string) ([]RequestDocument, error)
	ListTypes(ctx context.Context, requestID uuid.UUID, domain string) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, d *RequestDocument) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindByRequest(ctx context.Context, requestID uuid.UUID, domain string) ([]RequestDocument, error) {
	var docs []RequestDocument
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Where("domain = ?", domain).
		Order("created_at ASC").
		Find(&docs).Error
	return docs, err
}

func (r *repository) ListTypes(ctx context.Context, requestID uuid.UUID, domain string) ([]string, error) {
	var types []string
	err := r.db.WithContext(ctx).
		Model(&RequestDocument{}).
		Distinct("doc_type").
		Where("request_id = ?", requestID).
		Where("domain = ?", domain).
		Pluck("doc_type", &types).Error
	return types, err
}
