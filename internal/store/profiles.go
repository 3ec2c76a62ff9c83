// internal/store/profiles.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"matching-engine/internal/common/database"
	"matching-engine/internal/common/errors"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/ingest"
	"matching-engine/internal/matching"
)

const profileCachePrefix = "actor:profile:"

// ProfileStore supplies actor profiles from Postgres behind a Redis
// read-through cache. Cache failures degrade to database reads; they are
// logged, never surfaced.
type ProfileStore struct {
	db     *sql.DB
	cache  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewProfileStore(db *sql.DB, cache *database.RedisClient, ttl time.Duration, log logger.Logger) *ProfileStore {
	return &ProfileStore{db: db, cache: cache, ttl: ttl, logger: log}
}

// GetProfile returns the actor profile for id, from cache when fresh.
func (s *ProfileStore) GetProfile(ctx context.Context, id string) (*matching.ActorProfile, error) {
	if s.cache != nil {
		var cached matching.ActorProfile
		err := s.cache.GetJSON(ctx, profileCachePrefix+id, &cached)
		if err == nil {
			return &cached, nil
		}
		if !stderrors.Is(err, redis.Nil) {
			s.logger.Warn("profile cache read failed", map[string]interface{}{
				"actorId": id,
				"error":   err.Error(),
			})
		}
	}

	profile, err := s.loadProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, profileCachePrefix+id, profile, s.ttl); err != nil {
			s.logger.Warn("profile cache write failed", map[string]interface{}{
				"actorId": id,
				"error":   err.Error(),
			})
		}
	}
	return profile, nil
}

// Invalidate drops the cached profile, typically after a profile update.
func (s *ProfileStore) Invalidate(ctx context.Context, id string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, profileCachePrefix+id)
}

func (s *ProfileStore) loadProfile(ctx context.Context, id string) (*matching.ActorProfile, error) {
	var (
		skills                pq.StringArray
		lat, lng, hourlyRate  sql.NullFloat64
		responseTime          sql.NullString
		premiumLevel          sql.NullString
		premiumMultiplier     sql.NullFloat64
		featured, verifiedOnly sql.NullBool
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT skills, lat, lng, hourly_rate, response_time,
		       premium_level, premium_multiplier, featured, verified_only
		FROM actor_profiles
		WHERE id = $1`, id).Scan(
		&skills, &lat, &lng, &hourlyRate, &responseTime,
		&premiumLevel, &premiumMultiplier, &featured, &verifiedOnly,
	)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewProfileNotFoundError(id)
		}
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewQueryTimeoutError("actor_profile")
		}
		return nil, errors.NewQueryExecutionFailedError("actor_profile", err)
	}

	record := map[string]interface{}{
		"id":     id,
		"skills": []string(skills),
	}
	if lat.Valid && lng.Valid {
		record["location"] = map[string]interface{}{"lat": lat.Float64, "lng": lng.Float64}
	}
	if hourlyRate.Valid {
		record["hourlyRate"] = hourlyRate.Float64
	}
	if responseTime.Valid {
		record["responseTime"] = responseTime.String
	}
	if premiumLevel.Valid {
		premium := map[string]interface{}{"level": premiumLevel.String}
		if premiumMultiplier.Valid {
			premium["multiplier"] = premiumMultiplier.Float64
		}
		if featured.Valid {
			premium["featured"] = featured.Bool
		}
		if verifiedOnly.Valid {
			premium["verifiedOnly"] = verifiedOnly.Bool
		}
		record["premium"] = premium
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return nil, errors.NewProfileInvalidError(err.Error())
	}
	return ingest.Profile(raw)
}
