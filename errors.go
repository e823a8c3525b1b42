package nanogen

import "errors"

var (
	// ErrNoImageProduced is returned when the provider answered successfully
	// but the response carried no inline image part.
	ErrNoImageProduced = errors.New("no image was generated in the response")

	// ErrProviderNotConfigured is returned when a Client has no generator.
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrUnsupportedModel is returned by Validate when the provider does not
	// list the configured model.
	ErrUnsupportedModel = errors.New("unsupported model")

	// ErrUnsupportedAspectRatio is returned by Validate when the configured
	// model cannot produce the configured aspect ratio.
	ErrUnsupportedAspectRatio = errors.New("unsupported aspect ratio")

	// ErrInvalidDataURI is returned when a string is not a base64 data URI.
	ErrInvalidDataURI = errors.New("invalid data URI")
)
