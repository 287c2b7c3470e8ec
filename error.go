package tilelib

import "errors"

var (
	ErrNoInput            = errors.New("no input rasters")
	ErrBadScaleFactor     = errors.New("scale factor must be positive")
	ErrInvalidTif         = errors.New("invalid tif")
	ErrTifReadFailed      = errors.New("tif read failed")
	ErrTifWriteFailed     = errors.New("tif write failed")
	ErrReprojectFailed    = errors.New("reproject failed")
	ErrBandCountMismatch  = errors.New("source band count below output band count")
	ErrDegenerateRange    = errors.New("degenerate elevation range")
	ErrCRSMismatch        = errors.New("crs mismatch between rasters")
	ErrNoOverlap          = errors.New("rasters have no overlapping extent")
	ErrBadGrid            = errors.New("grid shape must be at least 1x1")
	ErrUnsupportedBandNum = errors.New("unsupported band count for texture export")
)
