package nanogen

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Client turns a prompt into a single displayable image.
// It is created once at startup and handed to whatever needs it; the
// underlying provider connection lives as long as the Client.
type Client struct {
	gen ImageGenerator

	// Model sent with each request; empty lets the provider pick its default
	model Model

	aspectRatio AspectRatio

	logger *slog.Logger
}

// Ensure Client implements ImageClient.
var _ ImageClient = (*Client)(nil)

// GenerateImage sends one request for prompt and returns the first image of the
// response as a data URI.
//
// The prompt must be non-blank. No timeout is applied here; bound the call
// through ctx. Provider errors are logged and returned as-is.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if c.gen == nil {
		return "", ErrProviderNotConfigured
	}
	if err := ValidatePrompt(prompt); err != nil {
		return "", err
	}

	config := &GenerateConfig{
		Model:       c.model,
		AspectRatio: c.aspectRatio,
	}
	start := time.Now()

	c.logger.Debug("starting image generation",
		"model", string(c.model),
		"aspect_ratio", string(c.aspectRatio),
		"prompt_length", len(prompt),
	)

	result, err := c.gen.Generate(ctx, prompt, config)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("generation failed",
			"model", string(c.model),
			"duration_ms", duration.Milliseconds(),
			"error", err.Error(),
		)

		return "", err
	}

	if result == nil {
		c.logger.Error("generation returned no result",
			"model", string(c.model),
			"duration_ms", duration.Milliseconds(),
		)

		return "", ErrNoImageProduced
	}

	img, ok := result.FirstImage()
	if !ok {
		c.logger.Error("generation returned no image",
			"model", string(c.model),
			"duration_ms", duration.Milliseconds(),
			"text_length", len(result.Text),
		)

		return "", ErrNoImageProduced
	}

	logAttrs := []any{
		"model", string(c.model),
		"duration_ms", duration.Milliseconds(),
		"mime_type", img.MIMEType,
		"image_bytes", len(img.Data),
	}
	if result.UsageMetadata != nil {
		logAttrs = append(logAttrs,
			"prompt_tokens", result.UsageMetadata.PromptTokens,
			"response_tokens", result.UsageMetadata.CandidatesTokens,
			"total_tokens", result.UsageMetadata.TotalTokens,
		)
	}
	c.logger.Info("generation completed", logAttrs...)

	return img.DataURI(), nil
}

// Validate checks the configured model and aspect ratio against the models the
// provider lists. An empty model means the provider's first (default) model;
// a provider that lists no models accepts anything.
func (c *Client) Validate() error {
	if c.gen == nil {
		return ErrProviderNotConfigured
	}

	models := c.gen.Models()
	if len(models) == 0 {
		return nil
	}

	info := models[0]
	if c.model != "" {
		var found bool
		for _, m := range models {
			if m.Name == string(c.model) || m.APIModelName == string(c.model) {
				info, found = m, true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %q", ErrUnsupportedModel, c.model)
		}
	}

	if !info.SupportsAspectRatio(c.aspectRatio) {
		return fmt.Errorf("%w: %s does not support %s", ErrUnsupportedAspectRatio, info.Name, c.aspectRatio)
	}
	return nil
}

// Models returns the model definitions of the underlying provider.
func (c *Client) Models() []ModelInfo {
	if c.gen == nil {
		return nil
	}
	return c.gen.Models()
}

// Close releases the provider.
func (c *Client) Close() error {
	if c.gen == nil {
		return nil
	}
	return c.gen.Close()
}
