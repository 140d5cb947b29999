package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/okian/tabula/internal/domain/model"
	"github.com/okian/tabula/pkg/logger"
)

const (
	keyPrefix      = "board:"
	updatesSuffix  = ":updates"
	connectTimeout = 5 * time.Second
)

// Hash field names inside a group document.
const (
	fieldTeens          = "teens"
	fieldCategories     = "categoriesConfig"
	fieldCategoryPoints = "categoryPoints"
	fieldScores         = "scores"
	fieldUpdatedAt      = "updatedAt"
	fieldOrigin         = "origin"
)

// RedisStore implements DocStore on a redis hash per group, with a
// pub/sub channel per group carrying full-document snapshots.
type RedisStore struct {
	rdb *goredis.Client
	log logger.Logger
}

// NewRedisStore connects to redis at url and verifies the connection.
func NewRedisStore(url string, opts ...RedisOption) (*RedisStore, error) {
	ropts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	rdb := goredis.NewClient(ropts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	s := &RedisStore{rdb: rdb}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("remote")
	}
	return s, nil
}

// NewRedisStoreWithClient wraps an existing client; used by tests.
func NewRedisStoreWithClient(rdb *goredis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{rdb: rdb}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("remote")
	}
	return s
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func docKey(group string) string     { return keyPrefix + group }
func channelKey(group string) string { return docKey(group) + updatesSuffix }

// Load fetches and decodes the group's document.
func (s *RedisStore) Load(ctx context.Context, group string) (model.Bundle, bool, error) {
	raw, err := s.rdb.HGetAll(ctx, docKey(group)).Result()
	if err != nil {
		return model.Bundle{}, false, fmt.Errorf("load document %q: %w", group, err)
	}
	if len(raw) == 0 {
		return model.Bundle{}, false, nil
	}
	b, err := decodeFields(raw)
	if err != nil {
		return model.Bundle{}, false, fmt.Errorf("decode document %q: %w", group, err)
	}
	return b, true, nil
}

// Save writes the bundle's fields into the group's hash and publishes
// the resulting snapshot. The write timestamp comes from the server
// clock when available.
func (s *RedisStore) Save(ctx context.Context, group string, b model.Bundle) error {
	b.UpdatedAt = s.serverTime(ctx)

	fields, err := encodeFields(b)
	if err != nil {
		return fmt.Errorf("encode document %q: %w", group, err)
	}
	if err := s.rdb.HSet(ctx, docKey(group), fields).Err(); err != nil {
		return fmt.Errorf("save document %q: %w", group, err)
	}

	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", group, err)
	}
	if err := s.rdb.Publish(ctx, channelKey(group), payload).Err(); err != nil {
		return fmt.Errorf("publish snapshot %q: %w", group, err)
	}
	return nil
}

// Subscribe attaches to the group's update channel. The handler first
// receives the current document when one exists, then live snapshots.
func (s *RedisStore) Subscribe(ctx context.Context, group string, fn Handler) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)

	sub := s.rdb.Subscribe(subCtx, channelKey(group))
	if _, err := sub.Receive(subCtx); err != nil {
		cancel()
		_ = sub.Close()
		return nil, fmt.Errorf("%w: %w", ErrSubscribe, err)
	}

	// Snapshot-on-attach: deliver the current document before live
	// updates so a fresh subscriber starts from remote truth.
	if current, ok, err := s.Load(subCtx, group); err != nil {
		s.log.Warn(subCtx, "initial document load failed",
			logger.String("group", group),
			logger.Error(err),
		)
	} else if ok {
		fn(current)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		ch := sub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var b model.Bundle
				if err := json.Unmarshal([]byte(m.Payload), &b); err != nil {
					s.log.Warn(subCtx, "bad snapshot payload",
						logger.String("group", group),
						logger.Error(err),
					)
					continue
				}
				fn(b)
			}
		}
	}()

	return func() {
		cancel()
		_ = sub.Close()
		<-done
	}, nil
}

// serverTime asks redis for its clock and falls back to the local one.
func (s *RedisStore) serverTime(ctx context.Context) time.Time {
	t, err := s.rdb.Time(ctx).Result()
	if err != nil {
		return time.Now().UTC()
	}
	return t.UTC()
}

func encodeFields(b model.Bundle) (map[string]any, error) {
	teens, err := json.Marshal(b.Teens)
	if err != nil {
		return nil, err
	}
	cats, err := json.Marshal(b.Categories)
	if err != nil {
		return nil, err
	}
	points, err := json.Marshal(b.CategoryPoints)
	if err != nil {
		return nil, err
	}
	scores, err := json.Marshal(b.Scores)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		fieldTeens:          string(teens),
		fieldCategories:     string(cats),
		fieldCategoryPoints: string(points),
		fieldScores:         string(scores),
		fieldUpdatedAt:      b.UpdatedAt.Format(time.RFC3339Nano),
		fieldOrigin:         b.Origin,
	}, nil
}

func decodeFields(raw map[string]string) (model.Bundle, error) {
	var b model.Bundle
	if v, ok := raw[fieldTeens]; ok {
		if err := json.Unmarshal([]byte(v), &b.Teens); err != nil {
			return b, err
		}
	}
	if v, ok := raw[fieldCategories]; ok {
		if err := json.Unmarshal([]byte(v), &b.Categories); err != nil {
			return b, err
		}
	}
	if v, ok := raw[fieldCategoryPoints]; ok {
		if err := json.Unmarshal([]byte(v), &b.CategoryPoints); err != nil {
			return b, err
		}
	}
	if v, ok := raw[fieldScores]; ok {
		if err := json.Unmarshal([]byte(v), &b.Scores); err != nil {
			return b, err
		}
	}
	if v, ok := raw[fieldUpdatedAt]; ok && v != "" {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			b.UpdatedAt = ts
		}
	}
	b.Origin = raw[fieldOrigin]
	return b, nil
}
