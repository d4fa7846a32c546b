package leavebalance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	balanceerrors "go-officeops/internal/leavebalance/errors"
)

const balanceCacheTTL = 10 * time.Minute

// BalanceCacheKey adalah key redis untuk satu ledger employee+tahun.
// Diexport karena modul leave ikut invalidate setelah mutasi saldo.
func BalanceCacheKey(companyID, employeeID string, year int) string {
	return fmt.Sprintf("leave_balance:%s:%s:%d", companyID, employeeID, year)
}

type Service interface {
	Get(ctx context.Context, companyID, employeeID string, year int) (*BalanceResponse, error)
	EnsureForYear(ctx context.Context, companyID, employeeID string, year int) error
	Invalidate(ctx context.Context, companyID, employeeID string, year int)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{repo: repo, rdb: rdb, logger: l}
}

func (s *service) Get(ctx context.Context, companyID, employeeID string, year int) (*BalanceResponse, error) {
	if year < 2000 || year > 2200 {
		return nil, balanceerrors.ErrInvalidYear
	}

	key := BalanceCacheKey(companyID, employeeID, year)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			var resp BalanceResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		balance, err := s.repo.FindByEmployeeAndYear(ctx, companyID, employeeID, year)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, balanceerrors.ErrBalanceNotFound
			}
			return nil, err
		}

		resp := mapToResponse(balance)

		if s.rdb != nil {
			payload, err := json.Marshal(resp)
			if err == nil {
				if err := s.rdb.Set(ctx, key, payload, balanceCacheTTL).Err(); err != nil {
					s.logger.Warn("failed to cache leave balance", zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*BalanceResponse), nil
}

func (s *service) EnsureForYear(ctx context.Context, companyID, employeeID string, year int) error {
	if err := s.repo.EnsureForYear(ctx, companyID, employeeID, year); err != nil {
		return err
	}
	s.Invalidate(ctx, companyID, employeeID, year)
	return nil
}

func (s *service) Invalidate(ctx context.Context, companyID, employeeID string, year int) {
	if s.rdb == nil {
		return
	}
	key := BalanceCacheKey(companyID, employeeID, year)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("failed to invalidate leave balance cache",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
