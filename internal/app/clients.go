package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/gcp"
	"github.com/yungbote/coursehub-backend/internal/platform/gemini"
	"github.com/yungbote/coursehub-backend/internal/platform/redisx"
)

type Clients struct {
	Redis     *redis.Client
	Gemini    gemini.Client
	GcpBucket gcp.BucketService
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	rdb, err := redisx.NewClient(ctx, log, cfg.Redis)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}

	// Chat stays routable without a key; turns then fail with 503.
	var gen gemini.Client
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		gcfg := gemini.DefaultConfig(cfg.GeminiAPIKey)
		if cfg.GeminiModel != "" {
			gcfg.Model = cfg.GeminiModel
		}
		gen, err = gemini.NewClient(ctx, log, gcfg, metrics.ObserveLLMRequest)
		if err != nil {
			closeRedis(rdb)
			return Clients{}, fmt.Errorf("init gemini client: %w", err)
		}
	} else {
		log.Warn("GEMINI_API_KEY not set; chat generation is unavailable")
	}

	bucket, err := resolveBucketService(ctx, log, cfg.Storage)
	if err != nil {
		closeRedis(rdb)
		if gen != nil {
			_ = gen.Close()
		}
		return Clients{}, err
	}

	return Clients{
		Redis:     rdb,
		Gemini:    gen,
		GcpBucket: bucket,
	}, nil
}

func closeRedis(rdb *redis.Client) {
	if rdb != nil {
		_ = rdb.Close()
	}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.GcpBucket != nil {
		_ = c.GcpBucket.Close()
	}
	if c.Gemini != nil {
		_ = c.Gemini.Close()
	}
	closeRedis(c.Redis)
}
