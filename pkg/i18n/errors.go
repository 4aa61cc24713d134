package i18n

import "errors"

var (
	ErrFailedToParseJSON = errors.New("failed to parse JSON content")
	ErrFailedToParseYAML = errors.New("failed to parse YAML content")
	ErrInvalidStructure  = errors.New("invalid translations structure")
	ErrFailedToReadFile  = errors.New("failed to read translation file")
	ErrLoadingCancelled  = errors.New("loading translations cancelled")
	// ErrNotReady is returned by Wait when translations are not loaded in time.
	ErrNotReady = errors.New("translations not ready")
	ErrWatch    = errors.New("failed to watch translations")
)
