package domain

import "errors"

var (
	// ErrParameter covers caller-correctable input: missing files, wrong
	// media types, non-positive dimensions, quality outside [0, 1].
	ErrParameter = errors.New("invalid parameter")
	// ErrDecode means the input bytes could not be decoded as an image.
	ErrDecode = errors.New("undecodable image data")
	// ErrNotFound is returned for unknown and reaped artifacts alike.
	ErrNotFound = errors.New("artifact not found")
	// ErrNoContent means a merge produced zero pages.
	ErrNoContent = errors.New("no image could be decoded")
	// ErrInvalidToken is the uniform result for unknown, expired and
	// mismatched tokens. Callers get no further detail.
	ErrInvalidToken = errors.New("invalid token")
	// ErrStorage covers scratch storage read/write failures.
	ErrStorage = errors.New("storage failure")
)
