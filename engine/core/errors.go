package core

import (
	"errors"
	"fmt"
)

var (
	ErrPrecondition           = errors.New("precondition failed")
	ErrResourceLoad           = errors.New("resource load failed")
	ErrUnsupportedEnvironment = errors.New("unsupported environment")
)

// ResourceKind names which input of a material load failed.
type ResourceKind int

const (
	ResourceKindRenderable ResourceKind = iota
	ResourceKindAlternateTexture
	ResourceKindDefaultTexture
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceKindRenderable:
		return "renderable"
	case ResourceKindAlternateTexture:
		return "alternate texture"
	case ResourceKindDefaultTexture:
		return "default texture"
	default:
		return fmt.Sprintf("ResourceKind(%d)", int(k))
	}
}

// PreconditionError reports a required input that was missing when an
// operation was requested.
type PreconditionError struct {
	Field string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s is required", ErrPrecondition, e.Field)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPrecondition
}

// ResourceLoadError reports which resource failed to load, from where, and why.
type ResourceLoadError struct {
	Kind   ResourceKind
	Source string
	Err    error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("unable to load %s from '%s': %v", e.Kind, e.Source, e.Err)
}

func (e *ResourceLoadError) Unwrap() []error {
	return []error{ErrResourceLoad, e.Err}
}
