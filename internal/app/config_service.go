package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/devagent/internal/core/settings"
	"github.com/example/devagent/internal/ports/primary"
	"github.com/example/devagent/internal/ports/secondary"
)

// ConfigServiceImpl implements the ConfigService interface on top of the
// settings schema. Unknown keys and ill-shaped values never reach storage.
type ConfigServiceImpl struct {
	configRepo secondary.ConfigRepository
	log        *zap.Logger
}

// NewConfigService creates a new ConfigService with injected dependencies.
func NewConfigService(configRepo secondary.ConfigRepository, log *zap.Logger) *ConfigServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConfigServiceImpl{configRepo: configRepo, log: log}
}

// Get returns the stored value of a key, or its default.
func (s *ConfigServiceImpl) Get(ctx context.Context, key string) primary.CommandResult {
	k, err := settings.Lookup(key)
	if err != nil {
		return failure(fmt.Sprintf("cannot read %s", key), err)
	}
	entry, err := s.entry(ctx, k)
	if err != nil {
		return failure(fmt.Sprintf("failed to read %s", key), err)
	}
	return primary.Ok(fmt.Sprintf("%s = %s", entry.Key, entry.Value), primary.ConfigData{Entry: entry})
}

// Set validates and stores a value. Setting the same value twice leaves
// the store unchanged apart from its timestamp.
func (s *ConfigServiceImpl) Set(ctx context.Context, key, value string) primary.CommandResult {
	k, err := settings.Lookup(key)
	if err != nil {
		return failure(fmt.Sprintf("cannot set %s", key), err)
	}
	normalized, err := settings.Validate(key, value)
	if err != nil {
		return failure(fmt.Sprintf("cannot set %s", key), err)
	}
	if err := s.configRepo.Set(ctx, key, normalized); err != nil {
		return failure(fmt.Sprintf("failed to store %s", key), err)
	}
	s.log.Debug("config set", zap.String("key", key), zap.String("value", normalized))

	entry := primary.ConfigEntry{Key: key, Value: normalized, Description: k.Description}
	return primary.Ok(fmt.Sprintf("%s = %s", key, normalized), primary.ConfigData{Entry: entry})
}

// List returns every schema key with its effective value.
func (s *ConfigServiceImpl) List(ctx context.Context) primary.CommandResult {
	records, err := s.configRepo.List(ctx)
	if err != nil {
		return failure("failed to list configuration", err)
	}
	stored := make(map[string]string, len(records))
	for _, r := range records {
		stored[r.Key] = r.Value
	}

	keys := settings.Keys()
	entries := make([]primary.ConfigEntry, 0, len(keys))
	for _, k := range keys {
		entry := primary.ConfigEntry{Key: k.Name, Value: k.Default, IsDefault: true, Description: k.Description}
		if v, ok := stored[k.Name]; ok {
			entry.Value = v
			entry.IsDefault = false
		}
		entries = append(entries, entry)
	}
	return primary.Ok(fmt.Sprintf("%d key(s)", len(entries)), primary.ConfigListData{Entries: entries})
}

// Unset removes a stored value so the default applies again.
func (s *ConfigServiceImpl) Unset(ctx context.Context, key string) primary.CommandResult {
	k, err := settings.Lookup(key)
	if err != nil {
		return failure(fmt.Sprintf("cannot unset %s", key), err)
	}

	message := fmt.Sprintf("%s reset to default", key)
	if err := s.configRepo.Delete(ctx, key); err != nil {
		if !errors.Is(err, secondary.ErrNotFound) {
			return failure(fmt.Sprintf("failed to unset %s", key), err)
		}
		message = fmt.Sprintf("%s was not set", key)
	}

	entry := primary.ConfigEntry{Key: key, Value: k.Default, IsDefault: true, Description: k.Description}
	return primary.Ok(message, primary.ConfigData{Entry: entry})
}

func (s *ConfigServiceImpl) entry(ctx context.Context, k settings.Key) (primary.ConfigEntry, error) {
	entry := primary.ConfigEntry{Key: k.Name, Description: k.Description}
	record, err := s.configRepo.Get(ctx, k.Name)
	switch {
	case errors.Is(err, secondary.ErrNotFound):
		entry.Value = k.Default
		entry.IsDefault = true
		return entry, nil
	case err != nil:
		return entry, err
	}
	entry.Value = record.Value
	return entry, nil
}

var _ primary.ConfigService = (*ConfigServiceImpl)(nil)
