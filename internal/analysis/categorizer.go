package analysis

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/community-watch/backend/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"

	maxRelatedCategories = 3
)

//go:embed taxonomy.yaml
var taxonomyYAML []byte

// KeywordRule maps a lowercase keyword stem to a normalized category.
type KeywordRule struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
}

// Taxonomy is an ordered, read-only keyword table.
type Taxonomy struct {
	rules []KeywordRule
	// category -> first keyword listed for it, in table order
	representatives []KeywordRule
}

var defaultTaxonomy = mustLoadTaxonomy(taxonomyYAML)

// LoadTaxonomy parses a YAML keyword table (see taxonomy.yaml).
func LoadTaxonomy(data []byte) (*Taxonomy, error) {
	var doc struct {
		Keywords []KeywordRule `yaml:"keywords"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}
	if len(doc.Keywords) == 0 {
		return nil, fmt.Errorf("taxonomy has no keywords")
	}

	t := &Taxonomy{rules: make([]KeywordRule, 0, len(doc.Keywords))}
	seen := make(map[string]struct{})
	for i, rule := range doc.Keywords {
		rule.Keyword = strings.ToLower(strings.TrimSpace(rule.Keyword))
		rule.Category = strings.TrimSpace(rule.Category)
		if rule.Keyword == "" || rule.Category == "" {
			return nil, fmt.Errorf("taxonomy entry %d: keyword and category are required", i)
		}
		t.rules = append(t.rules, rule)
		if _, ok := seen[rule.Category]; !ok {
			seen[rule.Category] = struct{}{}
			t.representatives = append(t.representatives, rule)
		}
	}
	return t, nil
}

func mustLoadTaxonomy(data []byte) *Taxonomy {
	t, err := LoadTaxonomy(data)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTaxonomy returns the embedded community incident taxonomy.
func DefaultTaxonomy() *Taxonomy {
	return defaultTaxonomy
}

// Categories lists the normalized categories in table order.
func (t *Taxonomy) Categories() []string {
	out := make([]string, 0, len(t.representatives))
	for _, r := range t.representatives {
		out = append(out, r.Category)
	}
	return out
}

// Categorize uses the embedded taxonomy.
func Categorize(category, title, description string) model.Categorization {
	return defaultTaxonomy.Categorize(category, title, description)
}

// Categorize - 입력 category/title/description 으로 정규화된 카테고리 결정
//
//  1. category 필드에 키워드가 있으면 첫 매칭, confidence=high
//  2. 없으면 title/description 에서 첫 매칭, confidence=medium
//  3. 아무 키워드도 없으면 입력 category 그대로, confidence=high
//  4. primary 외 카테고리 중 대표 키워드가 title/description 에 있으면 related (최대 3개)
func (t *Taxonomy) Categorize(category, title, description string) model.Categorization {
	categoryLower := strings.ToLower(category)
	titleLower := strings.ToLower(title)
	descLower := strings.ToLower(description)

	primary := category
	confidence := ConfidenceHigh

	if rule, ok := t.firstMatch(categoryLower); ok {
		primary = rule.Category
	} else if rule, ok := t.firstMatch(titleLower, descLower); ok {
		primary = rule.Category
		confidence = ConfidenceMedium
	}

	related := make([]string, 0, maxRelatedCategories)
	for _, rep := range t.representatives {
		if len(related) == maxRelatedCategories {
			break
		}
		if rep.Category == primary {
			continue
		}
		if strings.Contains(titleLower, rep.Keyword) || strings.Contains(descLower, rep.Keyword) {
			related = append(related, rep.Category)
		}
	}

	return model.Categorization{
		PrimaryCategory:    primary,
		CategoryConfidence: confidence,
		RelatedCategories:  related,
	}
}

func (t *Taxonomy) firstMatch(texts ...string) (KeywordRule, bool) {
	for _, rule := range t.rules {
		for _, text := range texts {
			if strings.Contains(text, rule.Keyword) {
				return rule, true
			}
		}
	}
	return KeywordRule{}, false
}
