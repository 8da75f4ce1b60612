package analysis

import (
	"slices"
	"strings"
	"testing"

	"github.com/community-watch/backend/internal/model"
)

func TestExtractActions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "suggested", text: "Summary here.\nSuggested actions: call police, secure area • notify neighbors", want: []string{"call police", "secure area", "notify neighbors"}},
		{name: "recommendations", text: "Recommendations: patrol - install lights", want: []string{"patrol", "install lights"}},
		{name: "capped", text: "Actions: a, b, c, d, e, f, g", want: []string{"a", "b", "c", "d", "e"}},
		{name: "none", text: "Nothing actionable here.", want: DefaultActions},
		{name: "no-colon", text: "Suggested actions call police", want: DefaultActions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractActions(tt.text); !slices.Equal(got, tt.want) {
				t.Fatalf("ExtractActions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractActionsDefaultsAreCopied(t *testing.T) {
	got := ExtractActions("")
	got[0] = "changed"
	if DefaultActions[0] != "Review incident" {
		t.Fatal("default actions were mutated through the returned slice")
	}
}

func TestExtractRiskLevelAndUrgency(t *testing.T) {
	tests := []struct {
		text        string
		wantRisk    string
		wantUrgency string
	}{
		{text: "This is High Risk and urgent.", wantRisk: model.LevelHigh, wantUrgency: model.LevelHigh},
		{text: "low risk overall, medium urgency", wantRisk: model.LevelLow, wantUrgency: model.LevelMedium},
		{text: "Risk: medium. Low urgency.", wantRisk: model.LevelMedium, wantUrgency: model.LevelLow},
		{text: "both low risk and high risk mentioned", wantRisk: model.LevelHigh, wantUrgency: ""},
		{text: "nothing relevant", wantRisk: "", wantUrgency: ""},
	}

	for _, tt := range tests {
		if got := ExtractRiskLevel(tt.text); got != tt.wantRisk {
			t.Fatalf("ExtractRiskLevel(%q) = %q, want %q", tt.text, got, tt.wantRisk)
		}
		if got := ExtractUrgency(tt.text); got != tt.wantUrgency {
			t.Fatalf("ExtractUrgency(%q) = %q, want %q", tt.text, got, tt.wantUrgency)
		}
	}
}

func TestExtractTags(t *testing.T) {
	got := ExtractTags("Suspicious activity reported near the park with loud noises", "Noise Complaint")
	want := []string{"noise complaint", "suspicious", "activity", "reported", "safety"}
	if !slices.Equal(got, want) {
		t.Fatalf("ExtractTags() = %v, want %v", got, want)
	}

	got = ExtractTags("that this with from", "Noise")
	want = []string{"noise", "safety", "community", "incident", "report"}
	if !slices.Equal(got, want) {
		t.Fatalf("stop words should be skipped: got %v", got)
	}
}

func TestFallbackSummary(t *testing.T) {
	if got := FallbackSummary("  "); got != UnavailableSummary {
		t.Fatalf("empty text summary = %q", got)
	}
	long := strings.Repeat("é", 400)
	if got := FallbackSummary(long); len([]rune(got)) != 300 {
		t.Fatalf("summary length = %d runes, want 300", len([]rune(got)))
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Fatalf("Truncate() = %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("Truncate() = %q", got)
	}
}

func TestBuildDegradedResult(t *testing.T) {
	in := model.IncidentInput{Category: "Noise", Priority: model.LevelMedium}
	heuristic := Extract("Loud music at 11 PM", "", "", "")
	local := Categorize(in.Category, "", "")

	got := BuildDegradedResult("The model rambled without JSON. Urgent.", in, heuristic, local)
	if got.Category != "Noise" || got.Severity != model.LevelMedium {
		t.Fatalf("category/severity = %q/%q", got.Category, got.Severity)
	}
	if got.Summary != "The model rambled without JSON. Urgent." {
		t.Fatalf("summary = %q", got.Summary)
	}
	if got.RiskLevel != model.LevelMedium || got.Urgency != model.LevelHigh {
		t.Fatalf("risk/urgency = %q/%q", got.RiskLevel, got.Urgency)
	}
	if !slices.Equal(got.SuggestedActions, DefaultActions) {
		t.Fatalf("actions = %v", got.SuggestedActions)
	}
	if !slices.Contains(got.Entities.Times, "11 PM") {
		t.Fatalf("times = %v", got.Entities.Times)
	}
	if got.Categorization == nil {
		t.Fatal("expected local categorization")
	}
}
