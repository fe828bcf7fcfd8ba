package model

// Provider identifies which external LLM API a model configuration targets.
type Provider string

const (
	ProviderDeepSeek   Provider = "deepseek"
	ProviderGemini     Provider = "gemini"
	ProviderOpenRouter Provider = "openrouter"
	ProviderAnthropic  Provider = "anthropic"
	ProviderGeneric    Provider = "generic"
)

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	switch p {
	case ProviderDeepSeek, ProviderGemini, ProviderOpenRouter, ProviderAnthropic, ProviderGeneric:
		return true
	}
	return false
}

// ModelConfig describes one logical model that can be asked to evaluate a
// survey. It is an immutable snapshot for the duration of a single request;
// temperature may be changed between runs by the caller.
type ModelConfig struct {
	Name        string   `json:"name" yaml:"name" mapstructure:"name"`
	Provider    Provider `json:"provider" yaml:"provider" mapstructure:"provider"`
	APIKey      string   `json:"-" yaml:"api_key,omitempty" mapstructure:"api_key"`
	Temperature float64  `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
	Endpoint    string   `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	ModelName   string   `json:"model_name,omitempty" yaml:"model_name,omitempty" mapstructure:"model_name"`
}
