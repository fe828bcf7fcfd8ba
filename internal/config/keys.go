package config

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/surveyworks/surveyqc-cli/internal/model"
)

// keyFile mirrors the key.json layout: a list of services, each carrying one
// or more API keys.
type keyFile struct {
	APIs []keyEntry `json:"apis"`
}

type keyEntry struct {
	Name string   `json:"name"`
	Keys []string `json:"keys"`
}

// serviceAliases maps credential-file service names to providers. The
// "openrounter" spelling is a long-standing typo in circulating key files;
// both spellings are accepted.
var serviceAliases = map[string]model.Provider{
	"deepseek":    model.ProviderDeepSeek,
	"gemini":      model.ProviderGemini,
	"openrouter":  model.ProviderOpenRouter,
	"openrounter": model.ProviderOpenRouter,
	"anthropic":   model.ProviderAnthropic,
	"generic":     model.ProviderGeneric,
}

// LoadKeys reads the credential file and returns a provider-to-key mapping.
// Only the first key of each service is used. A missing file is not an
// error: it yields an empty mapping, and affected models later fail fast
// with an authentication error.
func LoadKeys(path string) (map[model.Provider]string, error) {
	keys := make(map[model.Provider]string)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Debug("credential file not found", zap.String("path", path))
			return keys, nil
		}
		return nil, eris.Wrap(err, "config: read credential file")
	}

	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, eris.Wrap(err, "config: parse credential file")
	}

	for _, entry := range kf.APIs {
		provider, ok := serviceAliases[entry.Name]
		if !ok {
			zap.L().Warn("unknown service in credential file", zap.String("name", entry.Name))
			continue
		}
		if len(entry.Keys) == 0 || entry.Keys[0] == "" {
			continue
		}
		keys[provider] = entry.Keys[0]
	}

	return keys, nil
}

// ApplyKeys fills each model's API key from the provider mapping unless the
// model already carries one from config or environment.
func ApplyKeys(models []model.ModelConfig, keys map[model.Provider]string) []model.ModelConfig {
	out := make([]model.ModelConfig, len(models))
	for i, m := range models {
		if m.APIKey == "" {
			m.APIKey = keys[m.Provider]
		}
		out[i] = m
	}
	return out
}
