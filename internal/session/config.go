package session

import "time"

// Config holds session lifecycle settings.
type Config struct {
	// TTL is the session idle timeout.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	// TouchInterval is the minimum time between expiry extensions.
	// Zero extends on every committed request.
	TouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"`
	// CleanupInterval is how often the expired-session sweep runs.
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`
}
