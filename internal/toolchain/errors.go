package toolchain

import "errors"

var (
	ErrToolNotFound = errors.New("tool not found")
	ErrToolFailed   = errors.New("tool exited with failure")
	ErrToolIO       = errors.New("tool invocation failed")
)
