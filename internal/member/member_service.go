package member

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	membererrors "go-pfund/internal/member/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=member_service.go -destination=mock/member_service_mock.go -package=mock

// BalanceChecker is what the request modules consume: a vested-balance
// guard at application time.
type BalanceChecker interface {
	HasVestedBalance(ctx context.Context, employeeID uuid.UUID, amount float64) (bool, error)
}

type Service interface {
	BalanceChecker
	Upsert(ctx context.Context, req UpsertFundAccountRequest) (FundAccountResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) (FundAccountResponse, error)
	GetAll(ctx context.Context) ([]FundAccountResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("member.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("member.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func accountCacheKey(employeeID string) string {
	return fmt.Sprintf("fund_account:%s", employeeID)
}

func (s *service) Upsert(ctx context.Context, req UpsertFundAccountRequest) (FundAccountResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return FundAccountResponse{}, membererrors.ErrInvalidEmployeeID
	}
	if req.TotalBalance < 0 || req.VestedBalance < 0 || req.VestedBalance > req.TotalBalance {
		return FundAccountResponse{}, membererrors.ErrInvalidBalance
	}

	a := FundAccount{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		FullName:      req.FullName,
		TotalBalance:  req.TotalBalance,
		VestedBalance: req.VestedBalance,
	}
	if err := s.repo.Upsert(ctx, &a); err != nil {
		s.logger.Error("upsert fund account failed",
			zap.String("employee_id", req.EmployeeID),
			zap.Error(err),
		)
		return FundAccountResponse{}, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, accountCacheKey(req.EmployeeID)).Err(); err != nil {
			s.logger.Warn("fund account cache invalidation failed", zap.Error(err))
		}
	}

	s.logger.Info("fund account upserted", zap.String("employee_id", req.EmployeeID))
	return mapToResponse(a), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) (FundAccountResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return FundAccountResponse{}, membererrors.ErrInvalidEmployeeID
	}

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, accountCacheKey(employeeID)).Result()
		if err == nil {
			var resp FundAccountResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(accountCacheKey(employeeID), func() (any, error) {
		a, err := s.repo.FindByEmployee(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return FundAccountResponse{}, membererrors.ErrAccountNotFound
			}
			return FundAccountResponse{}, err
		}
		resp := mapToResponse(*a)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, accountCacheKey(employeeID), jsonData, 10*time.Minute)
			}
		}
		return resp, nil
	})
	if err != nil {
		return FundAccountResponse{}, err
	}
	return v.(FundAccountResponse), nil
}

func (s *service) GetAll(ctx context.Context) ([]FundAccountResponse, error) {
	accounts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]FundAccountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

// HasVestedBalance reads straight through to the database: application-time
// balance checks must never act on a cached value.
func (s *service) HasVestedBalance(ctx context.Context, employeeID uuid.UUID, amount float64) (bool, error) {
	a, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, membererrors.ErrAccountNotFound
		}
		return false, err
	}
	return a.VestedBalance >= amount, nil
}
