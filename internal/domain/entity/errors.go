package entity

import "errors"

var (
	ErrNavigation            = errors.New("navigation failed")
	ErrElementNotFound       = errors.New("element not found")
	ErrWeightLookupMiss      = errors.New("no weights configured for question")
	ErrExhaustedWeightedDraw = errors.New("weighted draw exceeded configured mass")
	ErrInvalidURL            = errors.New("invalid form url")
	ErrInvalidMode           = errors.New("invalid selection mode")
	ErrInvalidWeights        = errors.New("invalid weight table")
	ErrScreenshotUnsupported = errors.New("screenshots not supported by driver")
)
