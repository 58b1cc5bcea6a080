package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ImageHostChecker checks image host availability. A disabled host is not checked.
type ImageHostChecker interface {
	Enabled() bool
	HealthCheck(ctx context.Context) error
}
