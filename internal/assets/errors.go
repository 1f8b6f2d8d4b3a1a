package assets

import (
	"errors"
	"fmt"
)

var ErrMissingSprite = errors.New("missing sprite")

// Kind names one group of sprites loaded together.
type Kind string

const (
	KindCrystals   Kind = "crystals"
	KindMinis      Kind = "minis"
	KindBars       Kind = "bars"
	KindBackground Kind = "background"
)

// LoadError reports which sprite group failed to load and why.
type LoadError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("assets: load %s", e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *LoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
