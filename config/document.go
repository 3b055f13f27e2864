package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// decodeDocument decodes data without folding key case. Formats Viper reads
// but that are not decoded here yield a nil document.
func decodeDocument(format string, data []byte) (map[string]any, error) {
	var (
		doc map[string]any
		err error
	)
	switch format {
	case "json":
		err = json.Unmarshal(data, &doc)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &doc)
	case "toml":
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s document: %w", format, err)
	}
	return doc, nil
}

// lookupPath walks doc along a dot-separated key, matching each segment
// case-insensitively.
func lookupPath(doc any, key string) any {
	if key == "" {
		return doc
	}
	node := doc
	for _, segment := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node = nil
		for k, v := range m {
			if strings.EqualFold(k, segment) {
				node = v
				break
			}
		}
		if node == nil {
			return nil
		}
	}
	return node
}

// keySpellings maps the lower-cased form of each key of node to its
// original spelling.
func keySpellings(node any) map[string]string {
	out := map[string]string{}
	switch m := node.(type) {
	case map[string]any:
		for k := range m {
			out[strings.ToLower(k)] = k
		}
	case map[string]string:
		for k := range m {
			out[strings.ToLower(k)] = k
		}
	}
	return out
}
