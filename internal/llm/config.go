// Package llm wraps the hosted model used by the optional text enhancer.
// Callers pick a capability tier; the config maps tiers to concrete models.
package llm

// ModelTier is the capability level a call asks for.
type ModelTier string

const (
	// TierLite handles heading cleanup and other line-level rewrites.
	TierLite ModelTier = "lite"
	// TierStandard handles citation cleanup and structured extraction.
	TierStandard ModelTier = "standard"
	// TierAdvanced is reserved for long documents that fail on the standard tier.
	TierAdvanced ModelTier = "advanced"
)

// Provider names a model provider.
type Provider string

// ProviderGemini is the Google Gemini provider.
const ProviderGemini Provider = "gemini"

// DefaultTemperature keeps rewrites close to the source text.
const DefaultTemperature float32 = 0.1

// Config holds the model configuration for the enhancer.
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
	}
}

// GetModel returns the model name for a tier, falling back to the standard
// tier and then the lite tier. It returns "" when nothing is configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with model set for tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		next.Models[k] = v
	}
	next.Models[tier] = model
	return next
}
