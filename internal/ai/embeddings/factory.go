package embeddings

import (
	"context"
	"fmt"
	"math"
	"sync"
)

// Provider names recognized in configuration.
const (
	ProviderLocalHash = "localhash"
	ProviderSBERT     = "sbert"
	ProviderFastEmbed = "fastembed"
	ProviderOpenAI    = "openai"
	ProviderGigaChat  = "gigachat"
)

// NewFromConfig constructs the configured provider. Providers that cannot
// implement the full capability set in-process (sentence-transformer
// runtimes) are recognized but rejected, so misconfiguration fails at
// startup instead of at the first embedding task.
func NewFromConfig(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "", ProviderLocalHash:
		return NewLocalHashProvider(cfg.ModelName, cfg.Dim), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.ModelName, cfg.Dim)
	case ProviderGigaChat:
		return NewGigaChatProvider(
			cfg.GigaChatAuthKey,
			cfg.GigaChatScope,
			cfg.GigaChatOAuthURL,
			cfg.GigaChatAPIBase,
			cfg.ModelName,
			cfg.Dim,
		)
	case ProviderSBERT, ProviderFastEmbed:
		return nil, fmt.Errorf("embedding provider %q requires an external model runtime and is not available in this binary", cfg.Provider)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

var (
	acquireMu   sync.Mutex
	acquired    Provider
	acquiredErr error
	acquiredSet bool
)

// Acquire returns the process-wide provider, constructing it on first use.
// All embedding tasks share one provider so every vector written in this
// process carries the same model name.
func Acquire(cfg Config) (Provider, error) {
	acquireMu.Lock()
	defer acquireMu.Unlock()

	if !acquiredSet {
		acquired, acquiredErr = NewFromConfig(cfg)
		acquiredSet = true
	}
	return acquired, acquiredErr
}

// ValidateConfiguration probes the provider with a throwaway embed call and
// checks that the produced vector has the configured dimension and unit
// norm. Called once at startup.
func ValidateConfiguration(ctx context.Context, provider Provider, dim int) error {
	if dim <= 0 {
		dim = DefaultDim
	}
	if provider.Dim() != dim {
		return fmt.Errorf("provider %s has dimension %d, configured EMBEDDING_DIM=%d", provider.Name(), provider.Dim(), dim)
	}

	vector, err := provider.Embed(ctx, "configuration probe")
	if err != nil {
		return fmt.Errorf("embedding configuration probe failed: %w", err)
	}
	if len(vector) != dim {
		return fmt.Errorf("provider %s produced a vector of dimension %d, configured %d", provider.Name(), len(vector), dim)
	}

	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm < 0.99 || norm > 1.01 {
		return fmt.Errorf("provider %s produced a vector with norm %.4f, expected ~1", provider.Name(), norm)
	}
	return nil
}
