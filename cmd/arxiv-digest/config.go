// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

const envPrefix = "ARXIV_DIGEST"

// loadConfig layers the built-in defaults, an optional config file, and
// ARXIV_DIGEST_* environment variables into a PipelineConfig. A missing
// config file is only an error when cfgFile names it explicitly.
func loadConfig(v *viper.Viper, cfgFile string) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig

	def, err := yaml.Marshal(types.DefaultPipelineConfig())
	if err != nil {
		return cfg, fmt.Errorf("encoding default config: %w", err)
	}
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(def)); err != nil {
		return cfg, fmt.Errorf("loading default config: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("arxiv-digest")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "arxiv-digest"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else {
		lgr.Printf("[INFO] using config file %s", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
