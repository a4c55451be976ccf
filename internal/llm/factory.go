package llm

import (
	"context"
	"fmt"

	"github.com/vytor/lingoflash/internal/config"
	"github.com/vytor/lingoflash/internal/logger"
)

// FromConfig builds the provider selected by LLM_PROVIDER. Real providers are
// wrapped in a ResilientProvider; the caller must Close the result.
func FromConfig(ctx context.Context, cfg *config.Config) (Provider, func() error, error) {
	log := logger.FromContext(ctx).WithPrefix("llm")
	noop := func() error { return nil }

	var base Provider
	switch cfg.LLMProvider {
	case config.LLMProviderOpenAI:
		base = NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
	case config.LLMProviderGemini:
		gp, err := NewGeminiProvider(ctx, GeminiConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
		if err != nil {
			return nil, noop, err
		}
		base = gp
	case config.LLMProviderNone, "":
		log.Info("no LLM provider configured, using fallback content")
		return Disabled{}, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}

	rcfg := DefaultResilientConfig()
	rcfg.MaxAttempts = cfg.LLMMaxRetries
	rcfg.RatePerSecond = cfg.LLMRatePerSecond
	rp := NewResilientProvider(base, rcfg)

	log.Info("LLM provider %s ready", base.Name())
	return rp, rp.Close, nil
}
