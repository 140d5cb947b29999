package service

import (
	"time"

	"github.com/okian/tabula/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGroups sets the configured group partitions.
func WithGroups(groups []string) Option {
	return func(s *Service) {
		if len(groups) > 0 {
			s.groups = append([]string(nil), groups...)
		}
	}
}

// WithConfirmer sets the human confirmation hook for destructive
// operations.
func WithConfirmer(c Confirmer) Option {
	return func(s *Service) {
		if c != nil {
			s.confirmer = c
		}
	}
}

// WithDebounce sets the sync engine's write coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithGuardDelay sets the sync engine's echo guard delay.
func WithGuardDelay(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.guardDelay = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}
