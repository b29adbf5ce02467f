package loader

import (
	"gopkg.in/yaml.v3"
)

func decodeYAML(source string, data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
	}
	return nil
}
