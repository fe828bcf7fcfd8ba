package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveyworks/surveyqc-cli/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Providers.TimeoutSecs)
	assert.Equal(t, 4, cfg.Analyze.Concurrency)
	assert.Equal(t, "reports", cfg.Analyze.OutDir)
	assert.Equal(t, "key.json", cfg.Keys.File)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	// Built-in roster when no config file defines models.
	require.NotEmpty(t, cfg.Models)
	for _, m := range cfg.Models {
		assert.True(t, m.Provider.Valid(), "model %s", m.Name)
		assert.InDelta(t, 0.3, m.Temperature, 0.0001)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := model.ModelConfig{Name: "m", Provider: model.ProviderDeepSeek, Temperature: 0.3}

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid roster",
			cfg:  Config{Models: []model.ModelConfig{valid}},
		},
		{
			name:    "no models",
			cfg:     Config{},
			wantErr: "no models",
		},
		{
			name: "empty model name",
			cfg: Config{Models: []model.ModelConfig{
				{Provider: model.ProviderDeepSeek, Temperature: 0.3},
			}},
			wantErr: "empty name",
		},
		{
			name: "unknown provider",
			cfg: Config{Models: []model.ModelConfig{
				{Name: "m", Provider: "mystery", Temperature: 0.3},
			}},
			wantErr: "unknown provider",
		},
		{
			name: "temperature out of range",
			cfg: Config{Models: []model.ModelConfig{
				{Name: "m", Provider: model.ProviderDeepSeek, Temperature: 1.5},
			}},
			wantErr: "temperature",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
