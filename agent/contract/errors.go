package contract

import "errors"

var (
	ErrModelInvoke   = errors.New("model invoke failed")
	ErrPromptMissing = errors.New("required prompt is missing")
	ErrValidation    = errors.New("validation failed")
	ErrUnknownTool   = errors.New("unknown tool")
	ErrToolArgs      = errors.New("invalid tool arguments")
	ErrCatalog       = errors.New("tool catalog is inconsistent")
)
