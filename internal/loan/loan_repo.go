package loan

import (
	"context"
	"database/sql"

	workflowerrors "go-pfund/internal/workflow/errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=loan_repo.go -destination=mock/loan_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Loan) error
	FindAll(ctx context.Context) ([]Loan, error)
	FindAllByApplicant(ctx context.Context, applicantID string) ([]Loan, error)
	FindByID(ctx context.Context, id string) (*Loan, error)
	Update(ctx context.Context, l *Loan) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to an open transaction so that loan, chain,
// history and outbox writes commit or roll back together.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	dbtx := r.db.Session(&gorm.Session{NewDB: true})
	dbtx.Statement.ConnPool = tx
	return &repository{db: dbtx, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Loan, error) {
	var loans []Loan
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

func (r *repository) FindAllByApplicant(ctx context.Context, applicantID string) ([]Loan, error) {
	var loans []Loan
	err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Loan, error) {
	var l Loan
	err := r.db.WithContext(ctx).
		First(&l, "id = ?", id).Error
	return &l, err
}

// Update writes the row guarded by the version the caller loaded. Zero rows
// affected means another transition won the race.
func (r *repository) Update(ctx context.Context, l *Loan) error {
	prev := l.Version
	l.Version = prev + 1

	res := r.db.WithContext(ctx).
		Model(&Loan{}).
		Where("id = ?", l.ID).
		Where("version = ?", prev).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(l)
	if res.Error != nil {
		l.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		l.Version = prev
		return workflowerrors.ErrConcurrencyConflict
	}
	return nil
}
