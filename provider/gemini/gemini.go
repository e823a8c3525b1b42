// Package gemini provides an ImageGenerator implementation using Google's Gemini API.
//
// This provider uses the Gemini API backend via the official Go SDK:
// https://github.com/googleapis/go-genai
package gemini

import (
	"context"
	"fmt"

	"github.com/mhpenta/nanogen"
	"google.golang.org/genai"
)

// Model name constants - the actual API model names.
const (
	// APIModelNanoBanana is the actual API name for Gemini 2.5 Flash Image
	APIModelNanoBanana = "gemini-2.5-flash-image"

	// APIModelNanoBananaPro is the actual API name for Gemini 3 Pro Image
	APIModelNanoBananaPro = "gemini-3-pro-image-preview"
)

// GeminiGenerator implements ImageGenerator using Google's Gemini API.
type GeminiGenerator struct {
	client *genai.Client
}

// Ensure GeminiGenerator implements the interface.
var _ nanogen.ImageGenerator = (*GeminiGenerator)(nil)

// New creates a new GeminiGenerator from a ProviderConfig.
func New(ctx context.Context, config *nanogen.ProviderConfig) (*GeminiGenerator, error) {
	if config == nil {
		config = &nanogen.ProviderConfig{}
	}

	clientCfg := &genai.ClientConfig{
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: config.HTTPClient,
	}

	if config.APIKey != "" {
		clientCfg.APIKey = config.APIKey
	}
	// If APIKey is empty, the SDK will try GOOGLE_API_KEY or GEMINI_API_KEY env vars

	if config.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{
			BaseURL: config.BaseURL,
		}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
	}, nil
}

// NewWithAPIKey creates a generator with an API key for Gemini API.
func NewWithAPIKey(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	return New(ctx, &nanogen.ProviderConfig{
		Provider: nanogen.ProviderGeminiAPI,
		APIKey:   apiKey,
	})
}

// Generate creates images from a text prompt.
// Errors from the API call are returned unwrapped so callers see the SDK's
// own error values (genai.APIError and transport errors).
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, config *nanogen.GenerateConfig) (*nanogen.GenerateResult, error) {
	if err := nanogen.ValidatePrompt(prompt); err != nil {
		return nil, err
	}

	if config == nil {
		config = nanogen.DefaultConfig()
	}

	modelName := g.resolveModel(config)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	result, err := g.client.Models.GenerateContent(ctx, modelName, contents, g.buildGenerateContentConfig(config))
	if err != nil {
		return nil, err
	}

	return parseResult(result), nil
}

// Models returns the model definitions supported by this provider.
// The first model (NanoBanana) is the default.
func (g *GeminiGenerator) Models() []nanogen.ModelInfo {
	return []nanogen.ModelInfo{
		NanoBananaInfo,
		NanoBananaProInfo,
	}
}

// Close releases any resources held by the generator.
func (g *GeminiGenerator) Close() error {
	// The genai.Client doesn't require explicit closing in the current SDK
	return nil
}

// resolveModel maps a public or API model name to the API model name,
// falling back to the default model.
func (g *GeminiGenerator) resolveModel(config *nanogen.GenerateConfig) string {
	models := g.Models()
	if config == nil || config.Model == "" {
		return models[0].APIModelName
	}
	for _, m := range models {
		if m.Name == string(config.Model) {
			return m.APIModelName
		}
	}
	return string(config.Model)
}

// buildGenerateContentConfig converts our config to Gemini's GenerateContentConfig format.
func (g *GeminiGenerator) buildGenerateContentConfig(config *nanogen.GenerateConfig) *genai.GenerateContentConfig {
	genConfig := &genai.GenerateContentConfig{
		// Enable image output
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	aspectRatio := config.AspectRatio
	if aspectRatio == "" {
		aspectRatio = nanogen.DefaultAspectRatio
	}
	genConfig.ImageConfig = &genai.ImageConfig{
		AspectRatio: aspectRatio.String(),
	}

	return genConfig
}

// parseResult converts a Gemini response to our result type. Only the first
// candidate is read. A response without candidates yields an empty result;
// deciding whether that is an error is left to the caller.
func parseResult(result *genai.GenerateContentResponse) *nanogen.GenerateResult {
	genResult := &nanogen.GenerateResult{
		Images: make([]nanogen.ImagePart, 0),
	}
	if result == nil {
		return genResult
	}

	var parts []*genai.Part
	if len(result.Candidates) > 0 && result.Candidates[0] != nil && result.Candidates[0].Content != nil {
		parts = result.Candidates[0].Content.Parts
	}

	imageIndex := 0
	for _, part := range parts {
		if part == nil || part.Thought {
			continue
		}

		if part.Text != "" {
			genResult.Text += part.Text
		}

		if part.InlineData != nil && part.InlineData.Data != nil {
			genResult.Images = append(genResult.Images, nanogen.ImagePart{
				Data:     part.InlineData.Data,
				MIMEType: part.InlineData.MIMEType,
				Index:    imageIndex,
			})
			imageIndex++
		}
	}

	if result.UsageMetadata != nil {
		genResult.UsageMetadata = &nanogen.UsageMetadata{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CandidatesTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
			ImageCount:       len(genResult.Images),
		}
	}

	return genResult
}
