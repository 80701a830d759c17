package member

import (
	"context"
	"database/sql"

	membererrors "go-pfund/internal/member/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=member_repo.go -destination=mock/member_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, a *FundAccount) error
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) (*FundAccount, error)
	FindAll(ctx context.Context) ([]FundAccount, error)
	Debit(ctx context.Context, employeeID uuid.UUID, amount float64) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	dbtx := r.db.Session(&gorm.Session{NewDB: true})
	dbtx.Statement.ConnPool = tx
	return &repository{db: dbtx, tx: tx}
}

func (r *repository) Upsert(ctx context.Context, a *FundAccount) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"full_name", "total_balance", "vested_balance", "updated_at",
			}),
		}).
		Create(a).Error
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) (*FundAccount, error) {
	var a FundAccount
	err := r.db.WithContext(ctx).
		First(&a, "employee_id = ?", employeeID).Error
	return &a, err
}

func (r *repository) FindAll(ctx context.Context) ([]FundAccount, error) {
	var accounts []FundAccount
	err := r.db.WithContext(ctx).
		Order("full_name ASC").
		Find(&accounts).Error
	return accounts, err
}

// Debit subtracts from both balances, guarded in SQL so a release can never
// push the vested balance below zero.
func (r *repository) Debit(ctx context.Context, employeeID uuid.UUID, amount float64) error {
	res := r.db.WithContext(ctx).
		Model(&FundAccount{}).
		Where("employee_id = ?", employeeID).
		Where("vested_balance >= ?", amount).
		Updates(map[string]any{
			"vested_balance": gorm.Expr("vested_balance - ?", amount),
			"total_balance":  gorm.Expr("total_balance - ?", amount),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return membererrors.ErrInsufficientVestedBalance
	}
	return nil
}
