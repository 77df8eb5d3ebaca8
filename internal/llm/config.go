// Package llm provides the generation gateway over Google Gemini and the
// model selector configuration used by the manuscript editor.
package llm

import (
	"fmt"
	"sort"
	"strings"
)

// ModelSelector names one of the enumerated model choices offered to the user.
type ModelSelector string

const (
	// ModelFlash is the fast, inexpensive model (default)
	ModelFlash ModelSelector = "flash"
	// ModelPro is the higher quality model for long manuscripts
	ModelPro ModelSelector = "pro"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelSelector]string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelSelector]string{
			ModelFlash: "gemini-1.5-flash",
			ModelPro:   "gemini-1.5-pro",
		},
	}
}

// GetModel returns the model name for a given selector.
// Unknown selectors fall back to the flash model.
func (c *Config) GetModel(selector ModelSelector) string {
	if model, ok := c.Models[selector]; ok {
		return model
	}
	if model, ok := c.Models[ModelFlash]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a selector
func (c *Config) WithModel(selector ModelSelector, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelSelector]string),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[selector] = model
	return newConfig
}

// Selectors returns the configured selectors in sorted order.
func (c *Config) Selectors() []ModelSelector {
	selectors := make([]ModelSelector, 0, len(c.Models))
	for s := range c.Models {
		selectors = append(selectors, s)
	}
	sort.Slice(selectors, func(i, j int) bool { return selectors[i] < selectors[j] })
	return selectors
}

// ParseModelSelector resolves user input to a configured selector. Both the
// selector ("pro") and the full model name ("gemini-1.5-pro") are accepted.
// An empty value selects the flash model.
func (c *Config) ParseModelSelector(value string) (ModelSelector, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return ModelFlash, nil
	}
	for selector, model := range c.Models {
		if value == string(selector) || value == strings.ToLower(model) {
			return selector, nil
		}
	}
	return "", fmt.Errorf("unknown model: %q", value)
}
