package approval

import (
	"context"
	"database/sql"
	"errors"

	approvalerrors "go-pfund/internal/approval/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

//go:generate mockgen -source=approval_repo.go -destination=mock/approval_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateSteps(ctx context.Context, steps []ApprovalStep) error
	FindByRequest(ctx context.Context, requestID uuid.UUID) ([]ApprovalStep, error)
	Update(ctx context.Context, step *ApprovalStep) error
	DeleteStep(ctx context.Context, requestID, approverID uuid.UUID) error
	SaveAll(ctx context.Context, steps []ApprovalStep) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to the caller's open transaction so chain
// writes commit or roll back with the request row.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	dbtx := r.db.Session(&gorm.Session{NewDB: true})
	dbtx.Statement.ConnPool = tx
	return &repository{db: dbtx, tx: tx}
}

func (r *repository) CreateSteps(ctx context.Context, steps []ApprovalStep) error {
	err := r.db.WithContext(ctx).Create(&steps).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		// unique (request_id, approver_id) violated
		return approvalerrors.ErrDuplicateApprover
	}
	return err
}

func (r *repository) FindByRequest(ctx context.Context, requestID uuid.UUID) ([]ApprovalStep, error) {
	var steps []ApprovalStep
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("sequence_order ASC").
		Find(&steps).Error
	return steps, err
}

func (r *repository) Update(ctx context.Context, step *ApprovalStep) error {
	return r.db.WithContext(ctx).Save(step).Error
}

func (r *repository) DeleteStep(ctx context.Context, requestID, approverID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Where("approver_id = ?", approverID).
		Delete(&ApprovalStep{}).Error
}

func (r *repository) SaveAll(ctx context.Context, steps []ApprovalStep) error {
	for i := range steps {
		if err := r.db.WithContext(ctx).Save(&steps[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
