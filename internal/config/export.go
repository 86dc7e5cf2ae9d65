package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// MarshalTOML encodes the configuration as TOML tables, one per section.
// Values stay strings.
func (c *Config) MarshalTOML() ([]byte, error) {
	data, err := toml.Marshal(c.ToMap())
	if err != nil {
		return nil, fmt.Errorf("encode toml: %w", err)
	}
	return data, nil
}
