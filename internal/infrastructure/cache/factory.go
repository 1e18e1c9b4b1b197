package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/payables"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/infrastructure/config"
)

// NewSubmissionGuard creates the submission guard for the deployment.
// Redis is tried first so claims are shared across instances; when it is
// unreachable and fallback is allowed, a local in-memory guard is used.
func NewSubmissionGuard(cfg config.RedisConfig, logger *zap.Logger, allowInMemoryFallback bool) (payables.IdempotencyStore, error) {
	guard, err := NewRedisSubmissionGuard(cfg)
	if err == nil {
		logger.Info("using Redis submission guard")
		return guard, nil
	}

	if !allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for submission guard but unavailable: %w", err)
	}

	logger.Warn("Redis unavailable, falling back to in-memory submission guard; claims are not shared across instances",
		zap.Error(err))
	return NewInMemorySubmissionGuard(), nil
}
