package config

import (
	"fmt"
	"os"

	"github.com/couchcryptid/quake-data-etl-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// keywordFile is the YAML layout of KEYWORDS_FILE:
//
//	time: [발생시각, origin time, date]
//	magnitude: [규모, ml]
//
// Roles omitted from the file keep their default lists.
type keywordFile map[string][]string

// LoadKeywords reads candidate keyword lists from a YAML file, layered over
// the defaults.
func LoadKeywords(path string) (domain.Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords: %w", err)
	}

	var raw keywordFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse keywords: %w", err)
	}

	kw := domain.DefaultKeywords()
	for name, list := range raw {
		role, err := domain.ParseRole(name)
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("role %s: keyword list is empty", role)
		}
		kw[role] = list
	}
	return kw, nil
}
