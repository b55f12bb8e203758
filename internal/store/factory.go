package store

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/config"
)

func New(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "firestore":
		return NewFirestore(ctx, cfg, log)

	case "redis":
		return NewRedis(cfg, log)

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}
