package generation

import "errors"

// Common errors returned by generator implementations
var (
	// ErrGenerationFailed is returned when script generation fails for a general reason.
	ErrGenerationFailed = errors.New("failed to generate script")

	// ErrInvalidResponse is returned when the language model response is empty or malformed.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the language model blocks the request on safety grounds.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry.
	ErrTransientFailure = errors.New("transient error during script generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyContent is returned when the content record has nothing to write about.
	ErrEmptyContent = errors.New("content has no topic to generate from")
)
