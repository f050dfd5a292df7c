package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// decodeFile reads a TOML, YAML or JSON configuration file into a layer. The
// format follows the file extension; a file without one is read as TOML.
func decodeFile(path string) (layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return layer{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	var fileLayer layer
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".toml":
		return decodeTOML(path, data)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fileLayer)
	case ".json":
		err = json.Unmarshal(data, &fileLayer)
	default:
		return layer{}, fmt.Errorf("%w: %s: unsupported file extension %q", ErrParse, path, ext)
	}
	if err != nil {
		return layer{}, decodeError(path, err)
	}
	return fileLayer, nil
}

// decodeError separates values of the wrong type, which are field errors,
// from malformed documents.
func decodeError(path string, err error) error {
	var yamlTypeErr *yaml.TypeError
	if errors.As(err, &yamlTypeErr) {
		return &FieldError{Reason: strings.Join(yamlTypeErr.Errors, "; ")}
	}

	var jsonTypeErr *json.UnmarshalTypeError
	if errors.As(err, &jsonTypeErr) {
		return &FieldError{
			Field:  jsonTypeErr.Field,
			Reason: fmt.Sprintf("cannot use JSON %s as %s", jsonTypeErr.Value, jsonTypeErr.Type),
		}
	}

	return fmt.Errorf("%w: %s: %w", ErrParse, path, err)
}

// decodeTOML checks the document is well-formed before decoding it into a
// layer, so every error of the second pass is a field error.
func decodeTOML(path string, data []byte) (layer, error) {
	var doc map[string]any
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return layer{}, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	var fileLayer layer
	if _, err := toml.Decode(string(data), &fileLayer); err != nil {
		return layer{}, &FieldError{Reason: err.Error()}
	}
	return fileLayer, nil
}
