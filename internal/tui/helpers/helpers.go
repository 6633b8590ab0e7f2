package helpers

import (
	"inspector/internal/config"
	"inspector/internal/logging"
	"inspector/internal/settings"
)

// UIContext carries environment information needed for creating UI models
type UIContext struct {
	Width  int
	Height int
	Config *config.Config
	Logger *logging.AppLogger
	Store  *settings.Store
}

// NewUIContext creates a new UI context with the provided parameters
func NewUIContext(width, height int, cfg *config.Config, logger *logging.AppLogger, store *settings.Store) UIContext {
	return UIContext{
		Width:  width,
		Height: height,
		Config: cfg,
		Logger: logger,
		Store:  store,
	}
}

// HasValidDimensions checks if the context has valid window dimensions
func (ctx UIContext) HasValidDimensions() bool {
	return ctx.Width > 0 && ctx.Height > 0
}
