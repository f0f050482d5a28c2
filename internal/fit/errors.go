package fit

import "errors"

// ErrEmptyRange indicates the component's velocity window holds too few
// usable pixels to fit, usually because it lies outside the spectrum.
var ErrEmptyRange = errors.New("component window has too few usable pixels")
