// Package classify derives a news category from headline and body text using
// ordered keyword tables.
package classify

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/user/secnews-crawler/internal/entity"
	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var defaultTable []byte

type tableFile struct {
	Categories []struct {
		Category string   `yaml:"category"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"categories"`
}

type rule struct {
	category entity.Category
	pattern  *regexp.Regexp
}

// Classifier holds compiled keyword rules. It is immutable and safe for
// concurrent use.
type Classifier struct {
	rules     []rule
	personnel *regexp.Regexp
}

var defaultClassifier = mustLoad(defaultTable)

// Load compiles a YAML keyword table.
func Load(data []byte) (*Classifier, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse keyword table: %w", err)
	}

	c := &Classifier{}
	for _, entry := range file.Categories {
		category := entity.Category(entry.Category)
		if !category.Valid() || category == entity.CategoryGeneral {
			return nil, fmt.Errorf("invalid category %q in keyword table", entry.Category)
		}
		if len(entry.Keywords) == 0 {
			return nil, fmt.Errorf("category %s has no keywords", category)
		}

		quoted := make([]string, 0, len(entry.Keywords))
		for _, kw := range entry.Keywords {
			quoted = append(quoted, regexp.QuoteMeta(kw))
		}
		pattern := regexp.MustCompile(strings.Join(quoted, "|"))

		c.rules = append(c.rules, rule{category: category, pattern: pattern})
		if category == entity.CategoryPersonnel {
			c.personnel = pattern
		}
	}
	if c.personnel == nil {
		return nil, fmt.Errorf("keyword table has no %s category", entity.CategoryPersonnel)
	}
	return c, nil
}

func mustLoad(data []byte) *Classifier {
	c, err := Load(data)
	if err != nil {
		panic(err)
	}
	return c
}

// IsPersonnel reports whether text mentions an appointment, resignation or
// executive title.
func (c *Classifier) IsPersonnel(text string) bool {
	return c.personnel.MatchString(text)
}

// Category returns the first category whose keywords occur in text, or
// GENERAL.
func (c *Classifier) Category(text string) entity.Category {
	for _, r := range c.rules {
		if r.pattern.MatchString(text) {
			return r.category
		}
	}
	return entity.CategoryGeneral
}

// IsPersonnelNews uses the built-in keyword table.
func IsPersonnelNews(text string) bool {
	return defaultClassifier.IsPersonnel(text)
}

// ClassifyCategory uses the built-in keyword table.
func ClassifyCategory(text string) entity.Category {
	return defaultClassifier.Category(text)
}
