package gemini

import "github.com/mhpenta/nanogen"

var supportedAspectRatios = []nanogen.AspectRatio{
	nanogen.AspectRatio1x1,
	nanogen.AspectRatio16x9,
	nanogen.AspectRatio9x16,
	nanogen.AspectRatio4x3,
	nanogen.AspectRatio3x4,
}

// NanoBananaInfo is the model info for Gemini 2.5 Flash Image (nano-banana),
// the default model.
var NanoBananaInfo = nanogen.ModelInfo{
	Name:                  "nano-banana",
	Provider:              nanogen.ProviderGeminiAPI,
	APIModelName:          APIModelNanoBanana,
	SupportedAspectRatios: supportedAspectRatios,
}

// NanoBananaProInfo is the model info for Gemini 3 Pro Image (nano-banana-pro).
var NanoBananaProInfo = nanogen.ModelInfo{
	Name:                  "nano-banana-pro",
	Provider:              nanogen.ProviderGeminiAPI,
	APIModelName:          APIModelNanoBananaPro,
	SupportedAspectRatios: supportedAspectRatios,
}
