// Package project holds the session-level state that is not an annotation:
// display settings and the current map camera.
package project

import (
	"sync"

	"github.com/pyroplan/siteplan/pkg/core"
)

// Context is the current project's settings and view state.
type Context struct {
	mu       sync.RWMutex
	settings core.Settings
	camera   core.Camera
}

// NewContext creates a Context with default settings.
func NewContext() *Context {
	return &Context{
		settings: core.DefaultSettings(),
	}
}

// Settings returns the current project settings.
func (c *Context) Settings() core.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// SetSettings replaces the project settings.
func (c *Context) SetSettings(s core.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = s
}

// SetUnits switches the display unit system.
func (c *Context) SetUnits(u core.Units) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.Units = u
}

// SetSafetyDistance sets the safety distance rule in feet per inch.
func (c *Context) SetSafetyDistance(ft float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.SafetyDistance = ft
}

// SetShowHeight flips the global height-extrusion toggle.
func (c *Context) SetShowHeight(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.ShowHeight = on
}

// ShowHeight returns the global height-extrusion toggle.
func (c *Context) ShowHeight() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.ShowHeight
}

// Camera returns the current map camera.
func (c *Context) Camera() core.Camera {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.camera
}

// SetCamera updates the map camera.
func (c *Context) SetCamera(cam core.Camera) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.camera = cam
}
