package math

/**
 * @brief Creates and returns a new transform, using a zero
 * vector for position, identity quaternion for rotation, and
 * a one vector for scale. Also has a nil parent.
 */
func NewTransform() *Transform {
	return NewTransformFromPositionRotationScale(NewVec3Zero(), NewQuatIdentity(), NewVec3One())
}

/** @brief Creates a transform from the given position. */
func NewTransformFromPosition(position Vec3) *Transform {
	return NewTransformFromPositionRotationScale(position, NewQuatIdentity(), NewVec3One())
}

/**
 * @brief Creates a transform from the given position, rotation and scale.
 */
func NewTransformFromPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) *Transform {
	t := &Transform{
		Local: NewMat4Identity(),
	}
	t.SetPositionRotationScale(position, rotation, scale)
	return t
}

func (t *Transform) SetPosition(position Vec3) {
	t.Position = position
	t.IsDirty = true
}

func (t *Transform) SetRotation(rotation Quaternion) {
	t.Rotation = rotation
	t.IsDirty = true
}

func (t *Transform) SetScale(scale Vec3) {
	t.Scale = scale
	t.IsDirty = true
}

func (t *Transform) SetPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) {
	t.Position = position
	t.Rotation = rotation
	t.Scale = scale
	t.IsDirty = true
}

/**
 * @brief Retrieves the local transformation matrix from the provided transform.
 * Automatically recalculates the matrix if it is dirty. The matrix applies
 * scale, then rotation, then translation. A nil transform yields identity.
 */
func (t *Transform) GetLocal() Mat4 {
	if t == nil {
		return NewMat4Identity()
	}
	if t.IsDirty {
		rt := t.Rotation.ToMat4().Mul(NewMat4Translation(t.Position))
		t.Local = NewMat4Scale(t.Scale).Mul(rt)
		t.IsDirty = false
	}
	return t.Local
}

/**
 * @brief Obtains the world matrix of the given transform by walking up
 * the Parent chain. A nil transform yields identity.
 */
func (t *Transform) GetWorld() Mat4 {
	if t == nil {
		return NewMat4Identity()
	}
	l := t.GetLocal()
	if t.Parent != nil {
		return l.Mul(t.Parent.GetWorld())
	}
	return l
}
