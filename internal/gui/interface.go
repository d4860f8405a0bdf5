//go:build !nogui

package gui

import (
	"textdrop/internal/config"
	"textdrop/internal/drop"
)

// Interface defines the contract for GUI operations
type Interface interface {
	Run()
	ShowError(title string, err error)
	ShowInfo(message string)
}

// Factory creates GUI instances
type Factory struct {
	config *config.Config
	opts   []drop.Option
}

// NewFactory creates a new GUI factory. opts configure the drop machine of
// every created window.
func NewFactory(cfg *config.Config, opts ...drop.Option) *Factory {
	return &Factory{
		config: cfg,
		opts:   opts,
	}
}

// Create returns a new GUI instance
func (f *Factory) Create() (Interface, error) {
	return NewApp(f.config, f.opts...)
}
