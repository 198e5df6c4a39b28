package project

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyroplan/siteplan/pkg/core"
)

func TestNewContext_Defaults(t *testing.T) {
	c := NewContext()
	require.NotNil(t, c)

	s := c.Settings()
	assert.Equal(t, core.UnitsFeet, s.Units)
	assert.Equal(t, 70.0, s.SafetyDistance)
	assert.False(t, s.ShowHeight)
}

func TestContext_SetSettings(t *testing.T) {
	c := NewContext()

	c.SetSettings(core.Settings{
		Units:          core.UnitsMeters,
		SafetyDistance: 100,
		ShowHeight:     true,
	})

	s := c.Settings()
	assert.Equal(t, core.UnitsMeters, s.Units)
	assert.Equal(t, 100.0, s.SafetyDistance)
	assert.True(t, s.ShowHeight)
}

func TestContext_FieldSetters(t *testing.T) {
	c := NewContext()

	c.SetUnits(core.UnitsMeters)
	c.SetSafetyDistance(85)
	c.SetShowHeight(true)

	s := c.Settings()
	assert.Equal(t, core.UnitsMeters, s.Units)
	assert.Equal(t, 85.0, s.SafetyDistance)
	assert.True(t, c.ShowHeight())
}

func TestContext_Camera(t *testing.T) {
	c := NewContext()

	assert.Equal(t, core.Camera{}, c.Camera())

	cam := core.Camera{
		Center:  core.LatLng{Lng: -122.4786, Lat: 37.8199},
		Zoom:    16.5,
		Bearing: 45,
		Pitch:   60,
	}
	c.SetCamera(cam)
	assert.Equal(t, cam, c.Camera())
}

func TestContext_ConcurrentAccess(t *testing.T) {
	c := NewContext()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.SetShowHeight(n%2 == 0)
			c.Settings()
			c.ShowHeight()
			c.SetCamera(core.Camera{Zoom: float64(n)})
			c.Camera()
		}(i)
	}
	wg.Wait()
}
