package analysis

import (
	"fmt"
	"slices"
	"strings"
	"testing"
)

func TestExtractReferenceSentence(t *testing.T) {
	got := Extract("Officer Smith reported near Main Street at 2:30 PM yesterday", "", "", "")

	if !slices.Contains(got.People, "Officer Smith") {
		t.Fatalf("people = %v, want Officer Smith", got.People)
	}
	if !slices.Contains(got.Locations, "Main Street") {
		t.Fatalf("locations = %v, want Main Street", got.Locations)
	}
	for _, want := range []string{"2:30 PM", "yesterday"} {
		if !slices.Contains(got.Times, want) {
			t.Fatalf("times = %v, want %q", got.Times, want)
		}
	}
	if slices.Contains(got.Times, "30 PM") {
		t.Fatalf("bare hour duplicated the clock time: %v", got.Times)
	}
}

func TestExtractNeverReturnsNil(t *testing.T) {
	got := Extract("", "", "", "")
	if got.People == nil || got.Locations == nil || got.Times == nil || got.Organizations == nil || got.Other == nil {
		t.Fatalf("expected empty, non-nil lists: %+v", got)
	}
}

func TestExtractHints(t *testing.T) {
	got := Extract("Loud music all evening", " Oak Park ", "2025-01-10", "22:00")

	if got.Locations[len(got.Locations)-1] != "Oak Park" {
		t.Fatalf("location hint should be appended last: %v", got.Locations)
	}
	if !slices.Contains(got.Times, "evening") {
		t.Fatalf("times = %v", got.Times)
	}
	n := len(got.Times)
	if got.Times[n-2] != "Date: 2025-01-10" || got.Times[n-1] != "Time: 22:00" {
		t.Fatalf("date/time hints not appended: %v", got.Times)
	}
}

func TestExtractPeopleFilters(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []string
		notWant []string
	}{
		{
			name:    "calendar-words",
			text:    "Witness saw it on Monday in March.",
			want:    []string{"Witness"},
			notWant: []string{"Monday", "March"},
		},
		{
			name:    "stop-words",
			text:    "The dog barked. There was noise.",
			notWant: []string{"The", "There"},
		},
		{
			name: "honorific",
			text: "Mrs. Jones called about the suspect.",
			want: []string{"Mrs. Jones", "suspect"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			people := Extract(tt.text, "", "", "").People
			for _, w := range tt.want {
				if !slices.Contains(people, w) {
					t.Fatalf("people = %v, want %q", people, w)
				}
			}
			for _, nw := range tt.notWant {
				if slices.Contains(people, nw) {
					t.Fatalf("people = %v, must not contain %q", people, nw)
				}
			}
		})
	}
}

func TestExtractCapsLists(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, "Officer %s saw it. ", string(rune('A'+i))+"lpha")
	}
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "%s Police arrived. ", string(rune('A'+i))+"lpha")
	}

	got := Extract(b.String(), "", "", "")
	if len(got.People) != maxListEntities {
		t.Fatalf("people len = %d, want %d", len(got.People), maxListEntities)
	}
	if len(got.Organizations) > maxShortEntities {
		t.Fatalf("organizations len = %d, want <= %d", len(got.Organizations), maxShortEntities)
	}
}

func TestExtractOrganizations(t *testing.T) {
	got := Extract("Springfield Police responded and the fire department was called.", "", "", "")
	if !slices.Contains(got.Organizations, "Springfield Police") {
		t.Fatalf("organizations = %v", got.Organizations)
	}
}

func TestUniqueCapped(t *testing.T) {
	got := UniqueCapped([]string{" a ", "b", "a", "", "  ", "c", "d"}, 3)
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("UniqueCapped() = %v", got)
	}
	if got := UniqueCapped(nil, 5); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestExtractBoundsAndUniqueness(t *testing.T) {
	inputs := []string{
		strings.Repeat("Officer Jones met Mr. Brown near Elm Street at 9 PM. ", 20),
		strings.Repeat("The Youth Center and City Police Department responded this morning. ", 15),
		"12 Oak Avenue, 14 Pine Road, 3 Birch Lane, 77 Cedar Court, 5 Maple Drive, 8 Ash Way, 9 Fir Place, 10 Yew Circle, 11 Elm Street, 12 Oak Boulevard, 13 Gum Road",
	}

	for i, in := range inputs {
		got := Extract(in, "Town Hall", "2025-03-01", "9 PM")
		lists := []struct {
			name  string
			items []string
			limit int
		}{
			{"people", got.People, maxListEntities},
			{"locations", got.Locations, maxListEntities},
			{"times", got.Times, maxListEntities},
			{"organizations", got.Organizations, maxShortEntities},
			{"other", got.Other, maxShortEntities},
		}
		for _, l := range lists {
			if len(l.items) > l.limit {
				t.Fatalf("input %d: %s has %d entries, limit %d", i, l.name, len(l.items), l.limit)
			}
			seen := map[string]bool{}
			for _, item := range l.items {
				if seen[item] {
					t.Fatalf("input %d: duplicate %q in %s", i, item, l.name)
				}
				seen[item] = true
			}
		}
	}
}

func TestExtractLowercaseNamesAreNotPeople(t *testing.T) {
	got := Extract("officer smith reported a fight near main street", "", "", "")

	if !slices.Equal(got.People, []string{"officer"}) {
		t.Fatalf("people = %v, want [officer]", got.People)
	}
	if len(got.Locations) != 0 {
		t.Fatalf("locations = %v, want none", got.Locations)
	}

	titled := Extract("Officer Smith reported a fight near Main Street", "", "", "")
	if !slices.Contains(titled.People, "Officer Smith") || !slices.Contains(titled.Locations, "Main Street") {
		t.Fatalf("people/locations = %v/%v", titled.People, titled.Locations)
	}
}
