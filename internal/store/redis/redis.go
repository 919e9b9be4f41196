package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hnthap/classgate/config"
	"github.com/hnthap/classgate/internal/model"
	"github.com/redis/go-redis/v9"
)

// mirrorTTL bounds how long an abandoned attempt's answers survive. Any live
// attempt refreshes the TTL on every write.
const mirrorTTL = 24 * time.Hour

// Mirror persists answer mappings in Redis, one JSON blob per attempt key.
type Mirror struct {
	rdb *redis.Client
}

func NewMirror(cfg *config.Config) *Mirror {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return &Mirror{rdb: rdb}
}

func (m *Mirror) Ping(ctx context.Context) error {
	return m.rdb.Ping(ctx).Err()
}

func (m *Mirror) Save(ctx context.Context, key string, answers map[uint]model.AnswerValue) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("encode answer mirror: %w", err)
	}
	return m.rdb.Set(ctx, mirrorKey(key), data, mirrorTTL).Err()
}

func (m *Mirror) Load(ctx context.Context, key string) (map[uint]model.AnswerValue, bool, error) {
	raw, err := m.rdb.Get(ctx, mirrorKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var answers map[uint]model.AnswerValue
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, false, fmt.Errorf("decode answer mirror: %w", err)
	}
	return answers, true, nil
}

func (m *Mirror) Delete(ctx context.Context, key string) error {
	return m.rdb.Del(ctx, mirrorKey(key)).Err()
}

func mirrorKey(key string) string {
	return "mirror:" + key + ":answers"
}
