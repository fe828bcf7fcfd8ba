package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/surveyworks/surveyqc-cli/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write starter config.yaml and key.json templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := writeConfigTemplate("config.yaml"); err != nil {
			return err
		}
		if err := writeKeyTemplate("key.json"); err != nil {
			return err
		}
		zap.L().Info("templates written",
			zap.String("config", "config.yaml"),
			zap.String("keys", "key.json"),
		)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
	rootCmd.AddCommand(initCmd)
}

func writeConfigTemplate(path string) error {
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return eris.Errorf("init: %s already exists (use --force to overwrite)", path)
		}
	}

	template := config.Config{
		Models: config.DefaultModels(),
		Providers: config.ProvidersConfig{
			TimeoutSecs: 120,
		},
		Analyze: config.AnalyzeConfig{
			Concurrency: 4,
			OutDir:      "reports",
		},
		Keys: config.KeysConfig{
			File: "key.json",
		},
		Log: config.LogConfig{
			Level:  "info",
			Format: "console",
		},
	}

	data, err := yaml.Marshal(&template)
	if err != nil {
		return eris.Wrap(err, "init: marshal config template")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "init: write config template")
	}
	return nil
}

func writeKeyTemplate(path string) error {
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return eris.Errorf("init: %s already exists (use --force to overwrite)", path)
		}
	}

	template := map[string]any{
		"apis": []map[string]any{
			{"name": "deepseek", "keys": []string{""}},
			{"name": "gemini", "keys": []string{""}},
			{"name": "openrouter", "keys": []string{""}},
			{"name": "anthropic", "keys": []string{""}},
		},
	}

	data, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		return eris.Wrap(err, "init: marshal key template")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return eris.Wrap(err, "init: write key template")
	}
	return nil
}
