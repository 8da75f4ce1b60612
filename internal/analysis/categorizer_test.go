package analysis

import (
	"slices"
	"testing"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name           string
		category       string
		title          string
		description    string
		wantPrimary    string
		wantConfidence string
		wantRelated    []string
	}{
		{
			name:           "category-field-match",
			category:       "crime",
			title:          "Break-in",
			description:    "Someone broke a window",
			wantPrimary:    "Crime, Safety & Security",
			wantConfidence: ConfidenceHigh,
			wantRelated:    []string{},
		},
		{
			name:           "category-field-beats-text",
			category:       "Housing problem",
			title:          "Drug use in stairwell",
			description:    "",
			wantPrimary:    "Housing & Environmental Conditions",
			wantConfidence: ConfidenceHigh,
			wantRelated:    []string{},
		},
		{
			name:           "text-match-is-medium",
			category:       "Other",
			title:          "Drug dealing",
			description:    "Seen near the school gates",
			wantPrimary:    "Substance Abuse & Addiction",
			wantConfidence: ConfidenceMedium,
			wantRelated:    []string{"School & Student-Related Issues"},
		},
		{
			name:           "no-match-keeps-input",
			category:       "Lost Pet",
			title:          "Cat missing",
			description:    "Grey tabby last seen on the porch",
			wantPrimary:    "Lost Pet",
			wantConfidence: ConfidenceHigh,
			wantRelated:    []string{},
		},
		{
			name:           "related-capped-at-three",
			category:       "crime",
			title:          "Youth fight",
			description:    "mental health, substance, education and housing concerns",
			wantPrimary:    "Crime, Safety & Security",
			wantConfidence: ConfidenceHigh,
			wantRelated: []string{
				"Youth & Community Development",
				"Mental Health & Social Support",
				"Substance Abuse & Addiction",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.category, tt.title, tt.description)
			if got.PrimaryCategory != tt.wantPrimary {
				t.Fatalf("primary = %q, want %q", got.PrimaryCategory, tt.wantPrimary)
			}
			if got.CategoryConfidence != tt.wantConfidence {
				t.Fatalf("confidence = %q, want %q", got.CategoryConfidence, tt.wantConfidence)
			}
			if !slices.Equal(got.RelatedCategories, tt.wantRelated) {
				t.Fatalf("related = %v, want %v", got.RelatedCategories, tt.wantRelated)
			}
			if got.RelatedCategories == nil {
				t.Fatal("related categories must not be nil")
			}
		})
	}
}

func TestDefaultTaxonomyCategories(t *testing.T) {
	cats := DefaultTaxonomy().Categories()
	if len(cats) != 13 {
		t.Fatalf("expected 13 categories, got %d: %v", len(cats), cats)
	}
	if cats[0] != "Crime, Safety & Security" || cats[len(cats)-1] != "Elderly & Persons with Disabilities" {
		t.Fatalf("unexpected category order %v", cats)
	}
}

func TestLoadTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{name: "valid", yaml: "keywords:\n  - keyword: Flood\n    category: Weather\n"},
		{name: "empty", yaml: "keywords: []\n", wantErr: true},
		{name: "missing-category", yaml: "keywords:\n  - keyword: flood\n", wantErr: true},
		{name: "not-yaml", yaml: "keywords: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, err := LoadTaxonomy([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				got := tax.Categorize("other", "", "flood in the basement")
				if got.PrimaryCategory != "Weather" || got.CategoryConfidence != ConfidenceMedium {
					t.Fatalf("custom taxonomy not applied: %+v", got)
				}
			}
		})
	}
}

func TestCategorizeUnmappedHasNoRelated(t *testing.T) {
	got := Categorize("xyz-unmapped", "no keywords here", "nothing relevant")
	if got.PrimaryCategory != "xyz-unmapped" || len(got.RelatedCategories) != 0 {
		t.Fatalf("unexpected categorization %+v", got)
	}
}
