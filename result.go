package nanogen

// ImagePart is one inline image returned by a provider.
type ImagePart struct {
	// Data contains the raw image bytes
	Data []byte

	// MIMEType of the generated image
	MIMEType string

	// Index is the position in a multi-image result (0-indexed)
	Index int
}

// DataURI encodes the part as a self-contained data URI.
func (p ImagePart) DataURI() string {
	return EncodeDataURI(p.MIMEType, p.Data)
}

// GenerateResult holds the complete result of an image generation request.
type GenerateResult struct {
	// Images contains all inline images, in response order
	Images []ImagePart

	// Text contains any text response from the model
	Text string

	// UsageMetadata contains token/billing information
	UsageMetadata *UsageMetadata
}

// FirstImage returns the first image part, if any.
func (r *GenerateResult) FirstImage() (ImagePart, bool) {
	if r == nil || len(r.Images) == 0 {
		return ImagePart{}, false
	}
	return r.Images[0], true
}

// UsageMetadata contains usage information for billing and monitoring.
type UsageMetadata struct {
	PromptTokens     int
	CandidatesTokens int
	TotalTokens      int
	ImageCount       int
}
