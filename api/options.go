package api

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ParseOptions builds Options from "key=value" pairs. A key given more
// than once collects its values, which is how multiple stop sequences
// are passed. Unknown keys are rejected.
func ParseOptions(pairs []string) (*Options, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	m := make(map[string]any)
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid option %q: expected key=value", pair)
		}

		k = strings.TrimSpace(k)
		switch prev := m[k].(type) {
		case nil:
			m[k] = v
		case string:
			m[k] = []string{prev, v}
		case []string:
			m[k] = append(prev, v)
		}
	}

	return OptionsFromMap(m)
}

func OptionsFromMap(m map[string]any) (*Options, error) {
	var opts Options
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &opts,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(m); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	return &opts, nil
}
