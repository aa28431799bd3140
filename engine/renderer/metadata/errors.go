package metadata

import "errors"

var (
	ErrInvalidConfig      = errors.New("invalid resource configuration")
	ErrUnknownTextureSlot = errors.New("unknown texture slot")
)
