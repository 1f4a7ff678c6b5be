package core

import (
	"errors"
)

var (
	// schema mismatch between code and scene data
	ErrJointNotFound   = errors.New("joint not found")
	ErrChannelNotFound = errors.New("morph channel not found")
	ErrMeshNotFound    = errors.New("mesh not found")
	ErrNilArmature     = errors.New("armature is nil")
	ErrInvalidShape    = errors.New("invalid shape")

	// drawer lifecycle misuse
	ErrPassNotActive     = errors.New("no render pass active")
	ErrPassAlreadyActive = errors.New("render pass already active")

	ErrUnknownScene  = errors.New("unknown scene")
	ErrInvalidConfig = errors.New("invalid configuration")
)
