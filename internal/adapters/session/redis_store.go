// Package session provides the Redis-backed session store. Sessions live
// under "sess:<sid>" with a max-age TTL; two index sets ("sess:user:<id>"
// and "sess:role:<name>") let the store enumerate and bulk-terminate a
// user's or a role's sessions without scanning the keyspace.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
)

const (
	sessionKeyPrefix = "sess:"
	userIndexPrefix  = "sess:user:"
	roleIndexPrefix  = "sess:role:"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ portsrepo.SessionStore = (*RedisStore)(nil)

func sessionKey(sid string) string   { return sessionKeyPrefix + sid }
func userIndexKey(id string) string  { return userIndexPrefix + id }
func roleIndexKey(name string) string { return roleIndexPrefix + name }

func (s *RedisStore) Put(ctx context.Context, sess domain.Session, ttl time.Duration) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(sess.SID), payload, ttl)
	pipe.SAdd(ctx, userIndexKey(sess.UserID), sess.SID)
	pipe.SAdd(ctx, roleIndexKey(sess.Role), sess.SID)
	// Index expiry is extend-only: NX stamps a fresh set, GT lengthens it.
	// A shorter-lived session must never cut the index from under members
	// that outlive it, or they would vanish from listings and terminations.
	// Indexes outlive dead members by at most the longest TTL; readers prune
	// members whose session key has expired.
	pipe.ExpireNX(ctx, userIndexKey(sess.UserID), ttl)
	pipe.ExpireGT(ctx, userIndexKey(sess.UserID), ttl)
	pipe.ExpireNX(ctx, roleIndexKey(sess.Role), ttl)
	pipe.ExpireGT(ctx, roleIndexKey(sess.Role), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sid string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, sessionKey(sid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Touch(ctx context.Context, sid string, at time.Time) error {
	sess, err := s.Get(ctx, sid)
	if err != nil {
		return err
	}
	sess.LastActivity = at

	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	// KeepTTL preserves the fixed max-age; activity never extends a session.
	if err := s.client.Set(ctx, sessionKey(sid), payload, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	sess, err := s.Get(ctx, sid)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sid))
	pipe.SRem(ctx, userIndexKey(sess.UserID), sid)
	pipe.SRem(ctx, roleIndexKey(sess.Role), sid)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *RedisStore) ListByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	sids, err := s.client.SMembers(ctx, userIndexKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list user sessions: %w", err)
	}

	sessions := make([]domain.Session, 0, len(sids))
	for _, sid := range sids {
		sess, err := s.Get(ctx, sid)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				// Expired session, prune the stale index member.
				s.client.SRem(ctx, userIndexKey(userID), sid)
				continue
			}
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, nil
}

func (s *RedisStore) DeleteByUser(ctx context.Context, userID string) (int, error) {
	sessions, err := s.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, sess := range sessions {
		if err := s.Delete(ctx, sess.SID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *RedisStore) InvalidateSessionsForRole(ctx context.Context, roleName string) (int, error) {
	sids, err := s.client.SMembers(ctx, roleIndexKey(roleName)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list role sessions: %w", err)
	}

	removed := 0
	for _, sid := range sids {
		if err := s.Delete(ctx, sid); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				s.client.SRem(ctx, roleIndexKey(roleName), sid)
				continue
			}
			return removed, err
		}
		removed++
	}
	return removed, nil
}
