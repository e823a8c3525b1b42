package nanogen

import (
	"log/slog"
)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithLogger sets a structured logger for the client.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithModel pins the model sent with every request.
func WithModel(model Model) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithAspectRatio overrides the square default.
func WithAspectRatio(ratio AspectRatio) ClientOption {
	return func(c *Client) {
		if ratio != "" {
			c.aspectRatio = ratio
		}
	}
}

// NewClient creates a Client around gen.
//
// Example:
//
//	gen, err := gemini.NewWithAPIKey(ctx, apiKey)
//	if err != nil {
//	    return err
//	}
//	client := nanogen.NewClient(gen, nanogen.WithLogger(slog.Default()))
//	defer client.Close()
func NewClient(gen ImageGenerator, opts ...ClientOption) *Client {
	c := &Client{
		gen:         gen,
		aspectRatio: DefaultAspectRatio,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}
