package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// LoadKeywordsFile reads an ordered spam keyword list from a YAML file.
// Order matters downstream: the classifier reports the first matching keyword.
func LoadKeywordsFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cant read keywords file")
	}

	var keywords []string
	if err := yaml.Unmarshal(raw, &keywords); err != nil {
		return nil, errors.Wrap(err, "cant unmarshal keywords file")
	}

	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		out = append(out, keyword)
	}
	if len(out) == 0 {
		return nil, errors.New("keywords file is empty")
	}
	return out, nil
}
