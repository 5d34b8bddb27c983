package data

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed balance.yaml
var defaultBalanceYAML []byte

var defaultBalance = sync.OnceValues(func() (*BalanceTables, error) {
	return ParseBalance(defaultBalanceYAML)
})

// DefaultBalance returns the built-in balance tables.
// Callers must treat the result as read-only; it is shared.
func DefaultBalance() *BalanceTables {
	b, err := defaultBalance()
	if err != nil {
		// embedded file is covered by tests
		panic(fmt.Sprintf("parsing embedded balance tables: %v", err))
	}
	return b
}

// ParseBalance decodes and validates balance tables from YAML.
func ParseBalance(raw []byte) (*BalanceTables, error) {
	var b BalanceTables
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decoding balance tables: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("validating balance tables: %w", err)
	}
	return &b, nil
}

// LoadBalance loads balance tables from a YAML file.
// Empty path → built-in tables.
func LoadBalance(path string) (*BalanceTables, error) {
	if path == "" {
		return DefaultBalance(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading balance tables %s: %w", path, err)
	}
	b, err := ParseBalance(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing balance tables %s: %w", path, err)
	}

	slog.Info("loaded balance tables",
		"path", path,
		"items", len(b.Items),
		"classes", len(b.ClassMultipliers),
		"tiers", len(b.TierCoefficients))
	return b, nil
}
