// Package echo distinguishes locally-caused remote updates from
// externally-caused ones.
package echo

import "time"

// Option applies a configuration option to the Gate.
type Option func(*Gate)

// WithGuardDelay sets how long the in-flight flag stays raised past a
// completed write.
func WithGuardDelay(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.guard = d
		}
	}
}
