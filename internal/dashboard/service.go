package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = time.Minute
)

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

// service serves dashboard stats with a short Redis cache in front of the
// aggregate query. A nil redis client disables caching entirely.
type service struct {
	repo  Repository
	redis *redis.Client
}

func NewService(repo Repository, redisClient *redis.Client) Service {
	return &service{
		repo:  repo,
		redis: redisClient,
	}
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, statsCacheKey).Result()
		if err == nil {
			var stats Stats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		} else if err != redis.Nil {
			// Cache trouble must not take the dashboard down.
			log.Printf("dashboard stats cache read failed: %v", err)
		}
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		payload, err := json.Marshal(stats)
		if err == nil {
			if err := s.redis.Set(ctx, statsCacheKey, payload, statsCacheTTL).Err(); err != nil {
				log.Printf("dashboard stats cache write failed: %v", err)
			}
		}
	}

	return stats, nil
}
