package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadProfile читает YAML-профиль генерации. Незаданные поля берутся из DefaultGeneration.
func LoadProfile(path string) (GenerationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GenerationConfig{}, fmt.Errorf("read generation profile %s: %w", path, err)
	}

	profile := DefaultGeneration()
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return GenerationConfig{}, fmt.Errorf("parse generation profile %s: %w", path, err)
	}
	return profile, nil
}
