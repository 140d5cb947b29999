// Package localstore persists per-group scoreboard state on disk so a
// restarted client starts from its last known mirror. Writes are
// best-effort; reads fall back to supplied defaults.
package localstore

import (
	"context"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/okian/tabula/pkg/logger"
	"github.com/okian/tabula/pkg/metrics"
)

// Field names of the four persisted collections.
const (
	FieldTeens          = "teens"
	FieldCategories     = "categoriesConfig"
	FieldCategoryPoints = "categoryPoints"
	FieldScores         = "scores"
)

const (
	bucketName      = "state"
	openTimeout     = 1 * time.Second
	defaultFileMode = 0o600
)

// Key builds the namespaced storage key for a group field. Groups must
// never collide, so the group prefix is separated with a byte that
// group names cannot contain.
func Key(group, field string) string {
	return group + "/" + field
}

// Store is a bbolt-backed key-value mirror of remote state.
type Store struct {
	db  *bolt.DB
	log logger.Logger
}

// Open opens (creating if needed) the local store at path.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := bolt.Open(path, defaultFileMode, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("localstore")
	}
	return s, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put JSON-serializes value under the group field. Failures are logged
// and swallowed: local persistence is best-effort and never surfaces to
// the caller.
func (s *Store) Put(ctx context.Context, group, field string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		metrics.RecordLocalWriteFailure()
		s.log.Warn(ctx, "local store marshal failed",
			logger.String("group", group),
			logger.String("field", field),
			logger.Error(err),
		)
		return
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(Key(group, field)), raw)
	})
	if err != nil {
		metrics.RecordLocalWriteFailure()
		s.log.Warn(ctx, "local store write failed",
			logger.String("group", group),
			logger.String("field", field),
			logger.Error(err),
		)
	}
}

// Get deserializes the group field into out. It reports whether out was
// populated; missing or corrupt entries leave out untouched so the
// caller's defaults survive.
func (s *Store) Get(ctx context.Context, group, field string, out any) bool {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(Key(group, field)))
		if v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || raw == nil {
		metrics.RecordLocalReadFallback()
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		metrics.RecordLocalReadFallback()
		s.log.Warn(ctx, "local store entry corrupt; using defaults",
			logger.String("group", group),
			logger.String("field", field),
			logger.Error(err),
		)
		return false
	}
	return true
}
