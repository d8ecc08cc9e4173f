package config

import (
	"fmt"
	"os"

	"github.com/ledgervox/ledgervox/pkg/llm"
	"github.com/ledgervox/ledgervox/pkg/llm/anthropic"
	"github.com/ledgervox/ledgervox/pkg/llm/openai"
)

// BuildProvider creates an extraction model provider based on configuration
// precedence: CLI flags > Environment variables > Config file > Defaults.
func BuildProvider(cliProvider, cliModel, cliBaseURL, cliAPIKey string) (llm.Provider, error) {
	finalProvider := cliProvider
	finalModel := cliModel
	finalBaseURL := cliBaseURL
	finalAPIKey := cliAPIKey

	llmConfig := GetLLM()

	if finalProvider == "" && llmConfig != nil {
		finalProvider = llmConfig.GetProvider()
	}
	if finalProvider == "" {
		finalProvider = ProviderOpenAI
	}

	if finalAPIKey == "" {
		switch finalProvider {
		case ProviderAnthropic:
			finalAPIKey = os.Getenv("ANTHROPIC_API_KEY")
		default:
			finalAPIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if finalBaseURL == "" {
		finalBaseURL = os.Getenv("OPENAI_BASE_URL")
	}

	if llmConfig != nil {
		if finalModel == "" {
			finalModel = llmConfig.GetModel()
		}
		if finalBaseURL == "" {
			finalBaseURL = llmConfig.GetBaseURL()
		}
		if finalAPIKey == "" {
			finalAPIKey = llmConfig.GetAPIKey()
		}
	}

	if finalAPIKey == "" {
		return nil, fmt.Errorf("API key is required: set OPENAI_API_KEY or ANTHROPIC_API_KEY, pass -api-key, or configure it in ~/.ledgervox/config.json")
	}

	switch finalProvider {
	case ProviderAnthropic:
		opts := []anthropic.ProviderOption{}
		if finalModel != "" {
			opts = append(opts, anthropic.WithModel(finalModel))
		}
		provider, err := anthropic.NewProvider(finalAPIKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create anthropic provider: %w", err)
		}
		return provider, nil

	case ProviderOpenAI:
		opts := []openai.ProviderOption{openai.WithJSONOutput()}
		if finalModel != "" {
			opts = append(opts, openai.WithModel(finalModel))
		}
		if finalBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(finalBaseURL))
		}
		provider, err := openai.NewProvider(finalAPIKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai provider: %w", err)
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unknown provider %q (expected %q or %q)", finalProvider, ProviderOpenAI, ProviderAnthropic)
	}
}
