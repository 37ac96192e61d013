package primary

import "context"

// ConfigService defines the primary port for repository configuration.
// Keys and value shapes are checked against the settings schema.
type ConfigService interface {
	// Get returns the stored value of a key, or its default.
	Get(ctx context.Context, key string) CommandResult

	// Set validates and stores a value.
	Set(ctx context.Context, key, value string) CommandResult

	// List returns every key with its effective value.
	List(ctx context.Context) CommandResult

	// Unset removes a stored value so the default applies again.
	Unset(ctx context.Context, key string) CommandResult
}
