package components

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/anima-gallery/engine/math"
)

/**
 * @brief A perspective camera looking from Position at Target. View and
 * projection matrices are rebuilt lazily whenever a setter marks the
 * camera dirty.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/** @brief The point the camera looks at. */
	Target math.Vec3
	/** @brief World up, used to orient the view. */
	Up math.Vec3

	FovRadians float32
	Near       float32
	Far        float32
	/** @brief Viewport size in pixels. */
	Width, Height uint32

	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/**
	 * @brief The view matrix of this camera.
	 * NOTE: IMPORTANT: Do not get this directly, use GetView() instead
	 * so the view matrix is recalculated when needed.
	 */
	ViewMatrix       math.Mat4
	ProjectionMatrix math.Mat4
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

// Limit on pitch to avoid gimbal lock, 89 degrees.
const pitchLimit float32 = 1.55334306

func NewCamera(width, height uint32) *Camera {
	camera := &Camera{Width: width, Height: height}
	camera.Reset()
	return camera
}

// Reset restores the gallery default: 45 degree fov at (5, 5, 5) looking at the origin.
func (c *Camera) Reset() {
	c.Position = math.NewVec3(5, 5, 5)
	c.Target = math.NewVec3Zero()
	c.Up = math.NewVec3Up()
	c.FovRadians = math.DegToRad(45)
	c.Near = 0.01
	c.Far = 1000
	c.ViewMatrix = math.NewMat4Identity()
	c.ProjectionMatrix = math.NewMat4Identity()
	c.IsDirty = true
}

func (c *Camera) GetPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) SetTarget(target math.Vec3) {
	c.Target = target
	c.IsDirty = true
}

func (c *Camera) SetPerspective(fovRadians, near, far float32) {
	c.FovRadians = fovRadians
	c.Near = near
	c.Far = far
	c.IsDirty = true
}

// Resize changes the viewport. Zero sizes are ignored.
func (c *Camera) Resize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	c.Width = width
	c.Height = height
	c.IsDirty = true
}

func (c *Camera) rebuild() {
	if !c.IsDirty {
		return
	}
	aspect := float32(1)
	if c.Height > 0 {
		aspect = float32(c.Width) / float32(c.Height)
	}
	c.ViewMatrix = math.NewMat4LookAt(c.Position, c.Target, c.Up)
	c.ProjectionMatrix = math.NewMat4Perspective(c.FovRadians, aspect, c.Near, c.Far)
	c.IsDirty = false
}

func (c *Camera) GetView() math.Mat4 {
	c.rebuild()
	return c.ViewMatrix
}

func (c *Camera) GetProjection() math.Mat4 {
	c.rebuild()
	return c.ProjectionMatrix
}

// ViewProjection returns view then projection, ready to transform row vectors.
func (c *Camera) ViewProjection() math.Mat4 {
	c.rebuild()
	return c.ViewMatrix.Mul(c.ProjectionMatrix)
}

func (c *Camera) Forward() math.Vec3 {
	return c.Target.Sub(c.Position).Normalized()
}

func (c *Camera) Right() math.Vec3 {
	return c.Forward().Cross(c.Up).Normalized()
}

/**
 * @brief Orbits the camera around its target, keeping the distance.
 *
 * @param yaw Radians around world up.
 * @param pitch Radians towards world up. The result is clamped short of the poles.
 */
func (c *Camera) Orbit(yaw, pitch float32) {
	offset := c.Position.Sub(c.Target)
	radius := offset.Length()
	if radius == 0 {
		return
	}
	currentYaw := math32.Atan2(offset.X, offset.Z)
	currentPitch := math32.Asin(math.Clamp(offset.Y/radius, -1, 1))

	newYaw := currentYaw + yaw
	newPitch := math.Clamp(currentPitch+pitch, -pitchLimit, pitchLimit)

	cp := math32.Cos(newPitch)
	c.Position = c.Target.Add(math.NewVec3(
		radius*cp*math32.Sin(newYaw),
		radius*math32.Sin(newPitch),
		radius*cp*math32.Cos(newYaw),
	))
	c.IsDirty = true
}

// ProjectNDC returns normalized device coordinates and whether the point is
// in front of the camera.
func (c *Camera) ProjectNDC(world math.Vec3) (math.Vec3, bool) {
	clip := world.ToVec4(1).Transform(c.ViewProjection())
	if clip.W <= 0 {
		return math.Vec3{}, false
	}
	return math.NewVec3(clip.X/clip.W, clip.Y/clip.W, clip.Z/clip.W), true
}

/**
 * @brief Projects a world position to pixel coordinates with the origin at
 * the top left. Points behind the camera land outside the viewport.
 */
func (c *Camera) Project(world math.Vec3) math.Vec2 {
	ndc, ok := c.ProjectNDC(world)
	if !ok {
		return math.NewVec2(-1, -1)
	}
	x := math.RangeConvertFloat32(ndc.X, -1, 1, 0, float32(c.Width))
	y := math.RangeConvertFloat32(ndc.Y, 1, -1, 0, float32(c.Height))
	return math.NewVec2(x, y)
}
