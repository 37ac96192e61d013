package cli

import (
	"context"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/example/devagent/internal/ports/primary"
)

// ConfigAdapter translates CLI operations to ConfigService calls.
type ConfigAdapter struct {
	service primary.ConfigService
	p       printer
}

// NewConfigAdapter creates a new ConfigAdapter.
func NewConfigAdapter(service primary.ConfigService, out io.Writer, asJSON bool) *ConfigAdapter {
	return &ConfigAdapter{service: service, p: printer{out: out, json: asJSON}}
}

// Get prints one key.
func (a *ConfigAdapter) Get(ctx context.Context, key string) error {
	return a.p.emit(a.service.Get(ctx, key), nil)
}

// Set stores one key.
func (a *ConfigAdapter) Set(ctx context.Context, key, value string) error {
	return a.p.emit(a.service.Set(ctx, key, value), nil)
}

// Unset restores a key's default.
func (a *ConfigAdapter) Unset(ctx context.Context, key string) error {
	return a.p.emit(a.service.Unset(ctx, key), nil)
}

// List prints every key with its effective value.
func (a *ConfigAdapter) List(ctx context.Context) error {
	r := a.service.List(ctx)
	return a.p.emit(r, func() {
		data, ok := r.Data.(primary.ConfigListData)
		if !ok {
			return
		}
		tw := a.p.table()
		tw.AppendHeader(table.Row{"Key", "Value", "Source", "Description"})
		for _, e := range data.Entries {
			source := "set"
			if e.IsDefault {
				source = "default"
			}
			tw.AppendRow(table.Row{e.Key, e.Value, source, e.Description})
		}
		tw.Render()
	})
}
