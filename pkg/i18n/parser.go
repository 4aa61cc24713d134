package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parser decodes a translation file into a nested key map.
type Parser interface {
	Parse(content []byte) (map[string]any, error)
}

type (
	YAMLParser struct{}
	JSONParser struct{}
)

func (YAMLParser) Parse(content []byte) (map[string]any, error) {
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	return data, nil
}

func (JSONParser) Parse(content []byte) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}
	return data, nil
}

// ParserFor returns the parser for a file name, or nil for unsupported files.
func ParserFor(name string) Parser {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "yaml", "yml":
		return YAMLParser{}
	case "json":
		return JSONParser{}
	default:
		return nil
	}
}

// splitLanguages interprets a root level file as {lang: {key: value}}.
func splitLanguages(name string, data map[string]any) (map[string]map[string]any, error) {
	out := make(map[string]map[string]any, len(data))
	for lang, v := range data {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: language %q must map keys, got %T", ErrInvalidStructure, name, lang, v)
		}
		out[lang] = m
	}
	return out, nil
}
