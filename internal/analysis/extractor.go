// Package analysis implements the local, model-independent half of incident
// analysis: heuristic entity extraction, keyword categorization, repair of
// model output and the text-mining fallback used when that output is unusable.
//
// Everything here is pure and safe for concurrent use.
package analysis

import (
	"regexp"
	"strings"

	"github.com/community-watch/backend/internal/model"
)

const (
	maxListEntities  = 10
	maxShortEntities = 5
)

// capitalized phrase: one or more Title-cased words
const titlePhrase = `[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*`

const streetTypes = `(?i:street|st|avenue|ave|road|rd|boulevard|blvd|drive|dr|lane|ln|way|place|pl|court|ct|circle|cir)`

// Pattern tables are evaluated in order; earlier matches win deduplication.
var (
	rolePatterns = compilePatterns([]string{
		`\b(?i:officer|constable|sergeant|detective|supervisor|manager|director|coordinator)\b(?:\s+` + titlePhrase + `)?`,
		`\b(?i:mr|mrs|ms|miss|dr|prof)\.?\s+` + titlePhrase,
		`\b(?i:teenager|youth|child|adult|elderly|person|individual|suspect|victim|witness)\b`,
	})

	namePattern = regexp.MustCompile(`\b` + titlePhrase + `\b`)

	locationPatterns = compilePatterns([]string{
		`\b\d+\s+` + titlePhrase + `(?:\s+` + streetTypes + `\b)?`,
		`\b` + titlePhrase + `\s+` + streetTypes + `\b`,
		`\b(?i:near|at|on|in|by|around)\s+` + titlePhrase,
		`\b(?i:park|school|hospital|church|store|shop|building|house|apartment|complex|center|centre)\b`,
	})

	prepositionPrefix = regexp.MustCompile(`^(?i:near|at|on|in|by|around)\s+`)

	clockTimePattern = regexp.MustCompile(`\b\d{1,2}:\d{2}\s*(?i:am|pm)\b`)
	bareHourPattern  = regexp.MustCompile(`\b\d{1,2}\s*(?i:am|pm)\b`)

	timePhrasePatterns = compilePatterns([]string{
		`\b(?i:(?:early|late)\s+)?(?i:morning|afternoon|evening|night|midnight|noon|dawn|dusk)\b`,
		`\b\d+\s*(?i:minutes?|hours?|days?|weeks?)\s*(?i:ago|earlier|before|after|later)\b`,
		`\b(?i:yesterday|today|tomorrow|last\s+night|this\s+morning|this\s+afternoon|this\s+evening)\b`,
	})

	organizationPatterns = compilePatterns([]string{
		`\b` + titlePhrase + `\s+(?i:police|department|authority|agency|organization|association|club|group|center|centre)\b`,
		`\b(?i:police|fire|emergency|medical|hospital|school|church|government)\b(?:\s+` + titlePhrase + `)?`,
	})
)

// sentence-initial words that look like names
var nameStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "this": {}, "that": {}, "there": {},
	"they": {}, "when": {}, "where": {}, "what": {}, "how": {},
}

var calendarWords = map[string]struct{}{
	"january": {}, "february": {}, "march": {}, "april": {}, "may": {}, "june": {},
	"july": {}, "august": {}, "september": {}, "october": {}, "november": {}, "december": {},
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {}, "friday": {},
	"saturday": {}, "sunday": {},
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Extract - 신고 본문에서 사람/장소/시간/기관 후보를 추출
//
// location, date, t 는 폼에서 입력된 힌트이며 비어 있으면 무시된다.
// 실패하지 않으며, 최악의 경우 빈 목록을 반환한다.
func Extract(description, location, date, t string) model.ExtractedEntities {
	return model.ExtractedEntities{
		People:        extractPeople(description),
		Locations:     extractLocations(description, location),
		Times:         extractTimes(description, date, t),
		Organizations: extractOrganizations(description),
		Other:         []string{},
	}
}

func extractPeople(text string) []string {
	var people []string
	people = append(people, matchAll(rolePatterns, text)...)

	for _, name := range namePattern.FindAllString(text, -1) {
		if isLikelyName(name) {
			people = append(people, name)
		}
	}
	return UniqueCapped(people, maxListEntities)
}

func isLikelyName(candidate string) bool {
	if len(candidate) <= 2 {
		return false
	}
	lower := strings.ToLower(candidate)
	if _, ok := nameStopWords[lower]; ok {
		return false
	}
	if _, ok := calendarWords[lower]; ok {
		return false
	}
	return true
}

func extractLocations(text, hint string) []string {
	var locations []string
	for _, m := range matchAll(locationPatterns, text) {
		locations = append(locations, prepositionPrefix.ReplaceAllString(m, ""))
	}
	if hint = strings.TrimSpace(hint); hint != "" {
		locations = append(locations, hint)
	}
	return UniqueCapped(locations, maxListEntities)
}

func extractTimes(text, date, t string) []string {
	times := clockTimePattern.FindAllString(text, -1)

	// "2:30 PM" 의 "30 PM" 부분은 따로 잡지 않는다
	for _, loc := range bareHourPattern.FindAllStringIndex(text, -1) {
		if loc[0] > 0 && text[loc[0]-1] == ':' {
			continue
		}
		times = append(times, text[loc[0]:loc[1]])
	}
	times = append(times, matchAll(timePhrasePatterns, text)...)

	if date = strings.TrimSpace(date); date != "" {
		times = append(times, "Date: "+date)
	}
	if t = strings.TrimSpace(t); t != "" {
		times = append(times, "Time: "+t)
	}
	return UniqueCapped(times, maxListEntities)
}

func extractOrganizations(text string) []string {
	return UniqueCapped(matchAll(organizationPatterns, text), maxShortEntities)
}

func matchAll(patterns []*regexp.Regexp, text string) []string {
	var out []string
	for _, re := range patterns {
		out = append(out, re.FindAllString(text, -1)...)
	}
	return out
}

// UniqueCapped trims items, drops empties and exact duplicates (first wins)
// and keeps at most limit entries. The result is never nil.
func UniqueCapped(items []string, limit int) []string {
	out := make([]string, 0, min(len(items), limit))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if len(out) == limit {
			break
		}
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
