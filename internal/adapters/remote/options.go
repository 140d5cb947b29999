package remote

import "github.com/okian/tabula/pkg/logger"

// RedisOption applies a configuration option to the RedisStore.
type RedisOption func(*RedisStore)

// WithLogger sets a custom logger for the store.
func WithLogger(log logger.Logger) RedisOption {
	return func(s *RedisStore) {
		if log != nil {
			s.log = log
		}
	}
}
