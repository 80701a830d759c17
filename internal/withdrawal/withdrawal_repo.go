package withdrawal

import (
	"context"
	"database/sql"

	workflowerrors "go-pfund/internal/workflow/errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=withdrawal_repo.go -destination=mock/withdrawal_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, w *Withdrawal) error
	FindAll(ctx context.Context) ([]Withdrawal, error)
	FindAllByApplicant(ctx context.Context, applicantID string) ([]Withdrawal, error)
	FindByID(ctx context.Context, id string) (*Withdrawal, error)
	Update(ctx context.Context, w *Withdrawal) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to an open transaction so that withdrawal,
// balance, history and outbox writes commit or roll back together.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	dbtx := r.db.Session(&gorm.Session{NewDB: true})
	dbtx.Statement.ConnPool = tx
	return &repository{db: dbtx, tx: tx}
}

func (r *repository) Create(ctx context.Context, w *Withdrawal) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Withdrawal, error) {
	var withdrawals []Withdrawal
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&withdrawals).Error
	return withdrawals, err
}

func (r *repository) FindAllByApplicant(ctx context.Context, applicantID string) ([]Withdrawal, error) {
	var withdrawals []Withdrawal
	err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&withdrawals).Error
	return withdrawals, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Withdrawal, error) {
	var w Withdrawal
	err := r.db.WithContext(ctx).
		First(&w, "id = ?", id).Error
	return &w, err
}

// Update writes the row guarded by the version the caller loaded. Zero rows
// affected means another transition won the race.
func (r *repository) Update(ctx context.Context, w *Withdrawal) error {
	prev := w.Version
	w.Version = prev + 1

	res := r.db.WithContext(ctx).
		Model(&Withdrawal{}).
		Where("id = ?", w.ID).
		Where("version = ?", prev).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(w)
	if res.Error != nil {
		w.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		w.Version = prev
		return workflowerrors.ErrConcurrencyConflict
	}
	return nil
}
