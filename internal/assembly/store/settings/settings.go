// Package settings provides the ConfigSource and TaxRateProvider
// implementations backing the assembly core: an in-memory map source,
// optionally seeded from a yaml settings file.
package settings

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of the store settings.
type File struct {
	Settings map[string]string `yaml:"settings"`
	TaxRates map[int]float64   `yaml:"tax_rates"`
}

// Load reads a settings file.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}
	return &f, nil
}

// MemorySource is a threadsafe key-value ConfigSource.
type MemorySource struct {
	mu     sync.RWMutex
	values map[string]string
}

func New(values map[string]string) *MemorySource {
	if values == nil {
		values = make(map[string]string)
	}
	return &MemorySource{values: values}
}

// Value returns the configured value, or empty string for unset keys.
func (s *MemorySource) Value(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

// Set overrides one key. Used by tests and admin tooling.
func (s *MemorySource) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// StaticTaxRates resolves tax classes from a fixed table. Unknown classes
// resolve to 0%, matching the store's default tax class behavior.
type StaticTaxRates struct {
	rates map[int]float64
}

func NewTaxRates(rates map[int]float64) *StaticTaxRates {
	if rates == nil {
		rates = make(map[int]float64)
	}
	return &StaticTaxRates{rates: rates}
}

func (p *StaticTaxRates) RateFor(_ context.Context, taxClassID int) (float64, error) {
	return p.rates[taxClassID], nil
}
