package core

import "errors"

// Sentinel errors for programmatic checking.
var (
	ErrParse          = errors.New("unparseable source")
	ErrEditOverlap    = errors.New("overlapping edits")
	ErrEditOutOfRange = errors.New("edit span out of range")
	ErrWriteRace      = errors.New("file changed on disk during operation")
	ErrNoModule       = errors.New("no applicable module root found")
	ErrIssuesFound    = errors.New("issues found")
)
