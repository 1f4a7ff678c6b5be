package components

import (
	"testing"

	"github.com/spaghettifunk/anima-gallery/engine/math"
	"github.com/stretchr/testify/assert"
)

func TestProjectTargetLandsInViewportCentre(t *testing.T) {
	cam := NewCamera(640, 480)
	p := cam.Project(math.NewVec3Zero())
	assert.InDelta(t, 320, p.X, 1e-3)
	assert.InDelta(t, 240, p.Y, 1e-3)
}

func TestProjectKeepsScreenOrientation(t *testing.T) {
	cam := NewCamera(100, 100)
	cam.SetPosition(math.NewVec3(0, 0, 5))

	up := cam.Project(math.NewVec3(0, 1, 0))
	right := cam.Project(math.NewVec3(1, 0, 0))
	assert.Less(t, up.Y, float32(50), "up should be above centre")
	assert.Greater(t, right.X, float32(50), "+X should be right of centre")
}

func TestProjectBehindCamera(t *testing.T) {
	cam := NewCamera(100, 100)
	cam.SetPosition(math.NewVec3(0, 0, 5))
	_, ok := cam.ProjectNDC(math.NewVec3(0, 0, 10))
	assert.False(t, ok)
	assert.Equal(t, math.NewVec2(-1, -1), cam.Project(math.NewVec3(0, 0, 10)))
}

func TestResizeRebuildsProjection(t *testing.T) {
	cam := NewCamera(100, 100)
	before := cam.GetProjection()
	cam.Resize(200, 100)
	after := cam.GetProjection()
	assert.InDelta(t, before.Data[0]/2, after.Data[0], 1e-5)

	cam.Resize(0, 10)
	assert.Equal(t, uint32(200), cam.Width)
}

func TestOrbitKeepsDistanceAndClampsPitch(t *testing.T) {
	cam := NewCamera(100, 100)
	dist := cam.Position.Length()

	cam.Orbit(math.K_HALF_PI, 0)
	assert.InDelta(t, dist, cam.Position.Length(), 1e-4)

	cam.Orbit(0, 10)
	assert.InDelta(t, dist, cam.Position.Length(), 1e-4)
	assert.Less(t, cam.Position.Y, dist)
}
