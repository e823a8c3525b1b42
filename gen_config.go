package nanogen

// Model represents a specific image generation model.
type Model string

// AspectRatio represents the aspect ratio for generated images.
type AspectRatio string

const (
	AspectRatio1x1  AspectRatio = "1:1"
	AspectRatio16x9 AspectRatio = "16:9"
	AspectRatio9x16 AspectRatio = "9:16"
	AspectRatio4x3  AspectRatio = "4:3"
	AspectRatio3x4  AspectRatio = "3:4"
)

// DefaultAspectRatio is the fixed square ratio used for every gallery image.
const DefaultAspectRatio = AspectRatio1x1

// GenerateConfig holds the per-request image configuration sent to a provider.
type GenerateConfig struct {
	// Model to use for generation. Empty means the provider default.
	Model Model

	// AspectRatio of the output image
	AspectRatio AspectRatio
}

// DefaultConfig returns a square-image config on the provider's default model.
func DefaultConfig() *GenerateConfig {
	return &GenerateConfig{
		AspectRatio: DefaultAspectRatio,
	}
}

// String returns the string representation for API calls.
func (a AspectRatio) String() string {
	return string(a)
}

// String returns the model identifier.
func (m Model) String() string {
	return string(m)
}
