// Package cache guarda en Redis el último reporte de stock bajo de cada empresa.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/application/inventory"
)

const (
	keyPrefix = "alerts:low_stock:"
	genPrefix = "alerts:low_stock_gen:"
)

var _ inventory.AlertCache = (*RedisAlertCache)(nil)

// NewRedisClient crea el cliente a partir de REDIS_URL y valida la conexión.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// RedisAlertCache implementa inventory.AlertCache con entradas JSON y TTL.
type RedisAlertCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisAlertCache construye la caché. ttl <= 0 usa 60 segundos.
func NewRedisAlertCache(rdb *redis.Client, ttl time.Duration) *RedisAlertCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisAlertCache{rdb: rdb, ttl: ttl}
}

// Key devuelve la clave Redis del reporte de la empresa.
func Key(companyID string) string { return keyPrefix + companyID }

// GenKey devuelve la clave del contador de invalidaciones de la empresa. No expira.
func GenKey(companyID string) string { return genPrefix + companyID }

func (c *RedisAlertCache) Get(ctx context.Context, companyID string) (*dto.LowStockReport, int64, error) {
	vals, err := c.rdb.MGet(ctx, Key(companyID), GenKey(companyID)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis mget: %w", err)
	}
	gen, err := parseGen(vals[1])
	if err != nil {
		return nil, 0, err
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, nil
	}
	var report dto.LowStockReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		// Entrada corrupta: se descarta y se recalcula.
		_ = c.rdb.Del(ctx, Key(companyID)).Err()
		return nil, gen, nil
	}
	if report.Alerts == nil {
		report.Alerts = []dto.LowStockAlertDTO{}
	}
	return &report, gen, nil
}

// Set guarda el reporte solo si la generación sigue siendo gen. WATCH sobre el contador hace
// que una invalidación concurrente aborte la escritura.
func (c *RedisAlertCache) Set(ctx context.Context, companyID string, gen int64, report *dto.LowStockReport) error {
	if report == nil {
		return nil
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, GenKey(companyID)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, Key(companyID), raw, c.ttl)
			return nil
		})
		return err
	}, GenKey(companyID))
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisAlertCache) Invalidate(ctx context.Context, companyID string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenKey(companyID))
		pipe.Del(ctx, Key(companyID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}
	return nil
}

func parseGen(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	gen, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("generación de caché inválida %q: %w", s, err)
	}
	return gen, nil
}
