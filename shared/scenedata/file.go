package scenedata

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile lê uma cena de um arquivo .json, .yaml ou .yml.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(bytes.NewReader(data))
	}
}

// DecodeYAML lê e valida um documento YAML com a mesma forma do JSON.
func DecodeYAML(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if s.Structures == nil {
		s.Structures = make(map[string][]Record)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
