package member_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"go-pfund/internal/member"
	membererrors "go-pfund/internal/member/errors"
)

type fakeAccountRepo struct {
	accounts map[uuid.UUID]member.FundAccount
	finds    int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]member.FundAccount)}
}

func (f *fakeAccountRepo) WithTx(tx *sql.Tx) member.Repository { return f }

func (f *fakeAccountRepo) Upsert(ctx context.Context, a *member.FundAccount) error {
	f.accounts[a.EmployeeID] = *a
	return nil
}

func (f *fakeAccountRepo) FindByEmployee(ctx context.Context, employeeID uuid.UUID) (*member.FundAccount, error) {
	f.finds++
	a, ok := f.accounts[employeeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (f *fakeAccountRepo) FindAll(ctx context.Context) ([]member.FundAccount, error) {
	var out []member.FundAccount
	for _, a := range f.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAccountRepo) Debit(ctx context.Context, employeeID uuid.UUID, amount float64) error {
	a, ok := f.accounts[employeeID]
	if !ok || a.VestedBalance < amount {
		return membererrors.ErrInsufficientVestedBalance
	}
	a.VestedBalance -= amount
	a.TotalBalance -= amount
	f.accounts[employeeID] = a
	return nil
}

func TestMemberService_Upsert_Validation(t *testing.T) {
	svc := member.NewService(newFakeAccountRepo(), nil)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, member.UpsertFundAccountRequest{
		EmployeeID: "bukan-uuid", FullName: "Budi",
	})
	assert.True(t, errors.Is(err, membererrors.ErrInvalidEmployeeID))

	_, err = svc.Upsert(ctx, member.UpsertFundAccountRequest{
		EmployeeID:    uuid.New().String(),
		FullName:      "Budi",
		TotalBalance:  10_000_000,
		VestedBalance: 20_000_000,
	})
	assert.True(t, errors.Is(err, membererrors.ErrInvalidBalance), "vested di atas total harus ditolak")
}

func TestMemberService_Upsert_InvalidatesCache(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()
	repo := newFakeAccountRepo()
	svc := member.NewService(repo, rdb)

	employeeID := uuid.New()
	cacheKey := fmt.Sprintf("fund_account:%s", employeeID)
	redisMock.ExpectDel(cacheKey).SetVal(1)

	resp, err := svc.Upsert(context.Background(), member.UpsertFundAccountRequest{
		EmployeeID:    employeeID.String(),
		FullName:      "Siti Rahayu",
		TotalBalance:  50_000_000,
		VestedBalance: 35_000_000,
	})
	assert.NoError(t, err)
	assert.Equal(t, 35_000_000.0, resp.VestedBalance)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestMemberService_GetByEmployee(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	cacheKey := fmt.Sprintf("fund_account:%s", employeeID)

	t.Run("Hit Cache - Harus ambil data dari Redis", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		repo := newFakeAccountRepo()
		svc := member.NewService(repo, rdb)

		cached, _ := json.Marshal(member.FundAccountResponse{
			ID:            uuid.New().String(),
			EmployeeID:    employeeID.String(),
			FullName:      "Siti Rahayu",
			TotalBalance:  50_000_000,
			VestedBalance: 35_000_000,
		})
		redisMock.ExpectGet(cacheKey).SetVal(string(cached))

		resp, err := svc.GetByEmployee(ctx, employeeID.String())
		assert.NoError(t, err)
		assert.Equal(t, "Siti Rahayu", resp.FullName)
		assert.Zero(t, repo.finds, "cache hit tidak boleh menyentuh database")
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("Miss Cache - Harus ambil dari DB dan simpan ke Redis", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		repo := newFakeAccountRepo()
		svc := member.NewService(repo, rdb)

		account := member.FundAccount{
			ID:            uuid.New(),
			EmployeeID:    employeeID,
			FullName:      "Siti Rahayu",
			TotalBalance:  50_000_000,
			VestedBalance: 35_000_000,
		}
		repo.accounts[employeeID] = account

		expected, _ := json.Marshal(member.FundAccountResponse{
			ID:            account.ID.String(),
			EmployeeID:    employeeID.String(),
			FullName:      account.FullName,
			TotalBalance:  account.TotalBalance,
			VestedBalance: account.VestedBalance,
		})
		redisMock.ExpectGet(cacheKey).RedisNil()
		redisMock.ExpectSet(cacheKey, expected, 10*time.Minute).SetVal("OK")

		resp, err := svc.GetByEmployee(ctx, employeeID.String())
		assert.NoError(t, err)
		assert.Equal(t, 35_000_000.0, resp.VestedBalance)
		assert.Equal(t, 1, repo.finds)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("Akun tidak ditemukan", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		svc := member.NewService(newFakeAccountRepo(), rdb)

		redisMock.ExpectGet(cacheKey).RedisNil()
		_, err := svc.GetByEmployee(ctx, employeeID.String())
		assert.True(t, errors.Is(err, membererrors.ErrAccountNotFound))
	})
}

func TestMemberService_HasVestedBalance(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := member.NewService(repo, nil)
	ctx := context.Background()

	employeeID := uuid.New()
	repo.accounts[employeeID] = member.FundAccount{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		TotalBalance:  20_000_000,
		VestedBalance: 12_000_000,
	}

	ok, err := svc.HasVestedBalance(ctx, employeeID, 12_000_000)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasVestedBalance(ctx, employeeID, 12_000_001)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.HasVestedBalance(ctx, uuid.New(), 1)
	assert.True(t, errors.Is(err, membererrors.ErrAccountNotFound))
}
