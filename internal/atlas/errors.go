package atlas

import "github.com/pkg/errors"

var (
	ErrMissingPaletteForIndexed = errors.New("indexed document has no palette chunk")
	ErrEmptyInputDir            = errors.New("input directory contains no sprite sources")
	ErrNoFit                    = errors.New("one or more rectangles did not fit in the atlas")
)
