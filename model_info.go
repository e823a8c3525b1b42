package nanogen

import "net/http"

// Provider represents a model provider/backend.
type Provider string

const (
	ProviderGeminiAPI Provider = "gemini"
)

// ProviderConfig configures a specific provider.
type ProviderConfig struct {
	// Provider type
	Provider Provider

	// APIKey for authentication
	APIKey string

	// BaseURL for custom endpoints (optional)
	BaseURL string

	// HTTPClient overrides the transport (optional)
	HTTPClient *http.Client
}

// ModelInfo describes one model a provider can serve.
type ModelInfo struct {
	Name         string   // Public model name (e.g., "nano-banana")
	Provider     Provider // Which provider serves this model
	APIModelName string   // Actual API name (e.g., "gemini-2.5-flash-image")

	SupportedAspectRatios []AspectRatio
}

// SupportsAspectRatio reports whether the model accepts ratio.
// An empty constraint list accepts everything.
func (m ModelInfo) SupportsAspectRatio(ratio AspectRatio) bool {
	if len(m.SupportedAspectRatios) == 0 {
		return true
	}
	for _, r := range m.SupportedAspectRatios {
		if r == ratio {
			return true
		}
	}
	return false
}
