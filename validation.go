package nanogen

import (
	"errors"
	"strings"
)

// ErrEmptyPrompt is returned for prompts that are empty or only whitespace.
var ErrEmptyPrompt = errors.New("prompt cannot be empty")

// ValidatePrompt validates a text prompt. The prompt itself is never altered;
// whitespace only matters for deciding whether it is blank.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}
