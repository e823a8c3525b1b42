package nanogen

import "context"

// ImageGenerator is the provider interface behind Client.
// Implement this interface to add support for new models or providers.
//
// The first model returned by Models() is considered the default model.
type ImageGenerator interface {
	// Generate creates images from a text prompt.
	Generate(ctx context.Context, prompt string, genConfig *GenerateConfig) (*GenerateResult, error)

	// Models returns the model definitions supported by this provider.
	// The first model in the list is the default.
	Models() []ModelInfo

	// Close releases any resources held by the generator.
	Close() error
}

// ImageClient is what callers of Client depend on.
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}
