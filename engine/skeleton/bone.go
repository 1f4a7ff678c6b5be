package skeleton

import (
	"github.com/spaghettifunk/anima-gallery/engine/math"
	"github.com/spaghettifunk/anima-gallery/engine/scene"
)

// DefaultBoneThickness is the cross-section of a bone box in parent space.
const DefaultBoneThickness float32 = 0.1

/**
 * @brief Returns the transform that stretches the unit bone box (centred on
 * the origin, spanning [-0.5, 0.5]) over the segment from parent to child.
 *
 * The box is scaled to (thickness, child local Y, thickness), moved to half
 * the child's local offset and then placed by the parent's world transform.
 * Length comes from the child's local translation, so a rotation-only joint
 * with a zero offset between parent and child renders as a flat box.
 * World transforms must be recomputed for the frame before calling this.
 */
func BoneTransform(parent, child *scene.Joint, thickness float32) math.Mat4 {
	offset := child.Local.Position
	local := math.NewMat4Scale(math.NewVec3(thickness, offset.Y, thickness)).
		Mul(math.NewMat4Translation(offset.MulScalar(0.5)))
	return local.Mul(parent.World)
}

// BoneSegment describes one parent to child edge for a single draw.
type BoneSegment struct {
	Origin      math.Vec3
	Direction   math.Vec3
	Length      float32
	Orientation math.Mat4
	Transform   math.Mat4
}

// NewBoneSegment derives the segment from the current world transforms.
func NewBoneSegment(parent, child *scene.Joint, thickness float32) BoneSegment {
	origin := parent.World.Translation()
	head := child.World.Translation()
	delta := head.Sub(origin)

	orientation := parent.World
	orientation.Data[12], orientation.Data[13], orientation.Data[14] = 0, 0, 0

	return BoneSegment{
		Origin:      origin,
		Direction:   delta.Normalized(),
		Length:      delta.Length(),
		Orientation: orientation,
		Transform:   BoneTransform(parent, child, thickness),
	}
}
