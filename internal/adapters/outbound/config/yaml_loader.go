// Package config implements domain.ConfigLoader over a .mend.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mendkit/mend/internal/domain"
)

const fileName = ".mend.yaml"

// YAMLLoader reads .mend.yaml from the project root.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .mend.yaml from projectPath. A missing file yields the
// defaults; a present file has defaults merged under its explicit values.
func (l *YAMLLoader) Load(projectPath string) (domain.RunConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultRunConfig(), nil
		}
		return domain.RunConfig{}, err
	}

	cfg := domain.DefaultRunConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.RunConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.RunConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}
	return cfg, nil
}
