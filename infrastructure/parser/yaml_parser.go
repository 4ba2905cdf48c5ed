// Package parser reads host configuration documents.
package parser

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"io"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/ports"
	"gopkg.in/yaml.v3"
)

// YamlConfigParser implements ConfigParser for YAML.
type YamlConfigParser struct {
	strict bool
}

// NewYamlConfigParser creates a new YamlConfigParser. In strict mode
// unknown keys are rejected.
func NewYamlConfigParser(strict bool) ports.ConfigParser {
	return &YamlConfigParser{strict: strict}
}

// Parse unmarshals YAML bytes over base.
func (p *YamlConfigParser) Parse(data []byte, base entities.Config) (*entities.Config, error) {
	cfg := base

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(p.strict)
	if err := dec.Decode(&cfg); err != nil {
		if stdErrors.Is(err, io.EOF) {
			// Empty document.
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return &cfg, nil
}
