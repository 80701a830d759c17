package history

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=history_repo.go -destination=mock/history_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Append(ctx context.Context, e *HistoryEntry) error
	FindByRequest(ctx context.Context, requestID uuid.UUID, domain string, newestFirst bool) ([]HistoryEntry, error)
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

func (r *repository) Append(ctx context.Context, e *HistoryEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(e).Error
}

// FindByRequest reads the trail. Direction is a read-time choice, the
// storage order is always insertion order.
func (r *repository) FindByRequest(ctx context.Context, requestID uuid.UUID, domain string, newestFirst bool) ([]HistoryEntry, error) {
	direction := "ASC"
	if newestFirst {
		direction = "DESC"
	}

	var entries []HistoryEntry
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Where("domain = ?", domain).
		Order("created_at " + direction).
		Order("id " + direction).
		Find(&entries).Error
	return entries, err
}
