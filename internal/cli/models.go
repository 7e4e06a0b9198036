package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mgpai22/tilawa/internal/translate"
)

var geminiModels = []string{
	"gemini-3-pro-preview",
	"gemini-3-flash-preview",
	"gemini-2.5-pro",
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
}

var openAIModels = []string{
	"o1", "o3-mini", "o1-pro", "o3",
	"gpt-5", "gpt-5-nano", "gpt-5-mini", "gpt-5-pro",
	"gpt-5.1", "gpt-5.2", "gpt-5.2-pro",
}

var anthropicModels = []string{
	"claude-haiku-4-5",
	"claude-sonnet-4-5",
	"claude-opus-4-1",
}

func isValidGeminiModel(model string) bool {
	return slices.Contains(geminiModels, model)
}

func isValidOpenAIModel(model string) bool {
	return slices.Contains(openAIModels, model)
}

func isValidAnthropicModel(model string) bool {
	return slices.Contains(anthropicModels, model)
}

func validateModel(provider translate.Provider, model string) error {
	var valid bool
	var known []string
	switch provider {
	case translate.ProviderGemini:
		valid, known = isValidGeminiModel(model), geminiModels
	case translate.ProviderOpenAI:
		valid, known = isValidOpenAIModel(model), openAIModels
	case translate.ProviderAnthropic:
		valid, known = isValidAnthropicModel(model), anthropicModels
	default:
		return nil
	}
	if valid {
		return nil
	}
	return fmt.Errorf(
		"unsupported %s model %q: valid models are %s (use --model-override to bypass)",
		provider,
		model,
		strings.Join(known, ", "),
	)
}
