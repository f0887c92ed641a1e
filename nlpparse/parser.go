// Package nlpparse implements the Request Parser: free text in, a
// structured ParsedRequest out. It is a from-scratch Go port of a spaCy +
// dateparser pipeline; in the absence of an NLP/entity-extraction library in
// the example pack, locations and interests are extracted with a curated
// gazetteer and a part-of-speech-free noun heuristic (see DESIGN.md for why
// this one corner of the core stays on the standard library).
package nlpparse

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"itineraryplanner/planner"
)

const (
	minTextLen = 1
	maxTextLen = 2000
)

var suspiciousPatterns = []string{"<script>", "javascript:", "data:text/html"}

// Parser extracts structured travel intent from prose. It holds no mutable
// state and is safe for concurrent use.
type Parser struct {
	log          *zap.Logger
	gazetteer    map[string]bool
	stopWords    map[string]bool
	betweenRange *regexp.Regexp
	dateRange    *regexp.Regexp
	daysFrom     *regexp.Regexp
	forNDays     *regexp.Regexp
	moneySign    *regexp.Regexp
	moneyWord    *regexp.Regexp
	groupSize    *regexp.Regexp
}

// New builds a Parser. log may be nil, in which case a no-op logger is used.
func New(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{
		log:          log,
		gazetteer:    defaultGazetteer(),
		stopWords:    defaultStopWords(),
		betweenRange: regexp.MustCompile(`(?i)between\s+(.+?)\s+and\s+(.+?)(?:[.,]|$)`),
		dateRange:    regexp.MustCompile(`(?i)from\s+(.+?)\s+(?:to|until)\s+(.+?)(?:[.,]|$)`),
		daysFrom:     regexp.MustCompile(`(?i)(\d+)\s*-?\s*days?\s+starting\s+(.+?)(?:[.,]|$)`),
		forNDays:     regexp.MustCompile(`(?i)starting\s+(.+?)\s+for\s+(\d+)\s*days?`),
		moneySign:    regexp.MustCompile(`[$£€]\s?([0-9][0-9,]*(?:\.[0-9]+)?)`),
		moneyWord:    regexp.MustCompile(`(?i)([0-9][0-9,]*(?:\.[0-9]+)?)\s*(dollars|euros|pounds)`),
		groupSize:    regexp.MustCompile(`(?i)(\d{1,2})\s+(people|guests|travelers|travellers|adults)`),
	}
}

// Parse validates text and extracts a ParsedRequest. Structural violations
// (empty, too long, active content) return an INVALID_INPUT error; every
// other extraction failure degrades to a warning instead of aborting.
func (p *Parser) Parse(text string) (planner.ParsedRequest, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minTextLen {
		return planner.ParsedRequest{}, planner.New(planner.InvalidInput, "text cannot be empty")
	}
	if len(text) > maxTextLen {
		return planner.ParsedRequest{}, planner.New(planner.InvalidInput, "text exceeds maximum length")
	}
	lower := strings.ToLower(text)
	for _, pat := range suspiciousPatterns {
		if strings.Contains(lower, pat) {
			return planner.ParsedRequest{}, planner.New(planner.InvalidInput, "text contains invalid content")
		}
	}

	var warnings []string

	locations := p.extractLocations(trimmed)
	if len(locations) == 0 {
		locations = []string{"My Trip"}
		warnings = append(warnings, "no location found, defaulting to \"My Trip\"")
	}

	dateRange, dateWarn := p.extractDateRange(trimmed)
	if dateWarn != "" {
		warnings = append(warnings, dateWarn)
	}

	budget, budgetWarn := p.extractBudget(trimmed)
	if budgetWarn != "" {
		warnings = append(warnings, budgetWarn)
	}

	groupSize := p.extractGroupSize(trimmed)
	style := p.extractStyle(lower)
	pace := p.extractPace(lower)
	interests := p.extractInterests(trimmed, locations)

	confidence := confidenceScore(text)

	return planner.ParsedRequest{
		Locations:       locations,
		DateRange:       dateRange,
		Interests:       interests,
		Budget:          budget,
		Pace:            pace,
		GroupSize:       groupSize,
		Style:           style,
		ConfidenceScore: confidence,
		Warnings:        warnings,
	}, nil
}

// confidenceScore is a simple length-based heuristic: shorter, denser
// requests score higher, clamped to [50, 95].
func confidenceScore(text string) float64 {
	score := 1.0 - float64(len(text))/2000.0
	if score > 0.95 {
		score = 0.95
	}
	if score < 0.5 {
		score = 0.5
	}
	return score * 100
}

func (p *Parser) extractGroupSize(text string) *int {
	if m := p.groupSize.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return planner.IntPtr(n)
		}
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "family") {
		return planner.IntPtr(4)
	}
	if strings.Contains(lower, "couple") {
		return planner.IntPtr(2)
	}
	return nil
}

// styleKeywords is checked in order; the first style with a matching
// keyword wins, so text matching several styles always yields the same one.
var styleKeywords = []struct {
	style    string
	keywords []string
}{
	{"luxury", []string{"luxury", "five-star", "5-star", "upscale"}},
	{"budget", []string{"budget", "backpack", "cheap", "affordable"}},
	{"family", []string{"family", "kid-friendly", "kids"}},
	{"adventure", []string{"adventure", "hiking", "trekking", "outdoor"}},
}

func (p *Parser) extractStyle(lowerText string) *string {
	for _, sk := range styleKeywords {
		for _, kw := range sk.keywords {
			if strings.Contains(lowerText, kw) {
				return planner.StringPtr(sk.style)
			}
		}
	}
	return nil
}

func (p *Parser) extractPace(lowerText string) string {
	switch {
	case strings.Contains(lowerText, "relaxed"):
		return "relaxed"
	case strings.Contains(lowerText, "intense"), strings.Contains(lowerText, "packed"):
		return "intense"
	case strings.Contains(lowerText, "moderate"):
		return "moderate"
	default:
		return "moderate"
	}
}

func (p *Parser) extractBudget(text string) (*float64, string) {
	var amounts []float64

	for _, m := range p.moneySign.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			amounts = append(amounts, v)
		}
	}
	for _, m := range p.moneyWord.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			amounts = append(amounts, v)
		}
	}

	if len(amounts) == 0 {
		return nil, ""
	}
	sort.Float64s(amounts)
	largest := amounts[len(amounts)-1]
	if len(amounts) > 1 {
		return planner.Float64Ptr(largest), "multiple budget amounts found, using the largest"
	}
	return planner.Float64Ptr(largest), ""
}

// extractDateRange implements the two-stage strategy from the source
// parser: explicit range phrasing first, then a generic fallback search
// filtered to drop money and pure-digit fragments.
func (p *Parser) extractDateRange(text string) ([]time.Time, string) {
	now := time.Now().UTC()

	if m := p.betweenRange.FindStringSubmatch(text); m != nil {
		d1, ok1 := parseRelativeDate(m[1], now)
		d2, ok2 := parseRelativeDate(m[2], now)
		if ok1 && ok2 {
			return orderedPair(d1, d2), ""
		}
	}
	if m := p.dateRange.FindStringSubmatch(text); m != nil {
		d1, ok1 := parseRelativeDate(m[1], now)
		d2, ok2 := parseRelativeDate(m[2], now)
		if ok1 && ok2 {
			return orderedPair(d1, d2), ""
		}
	}
	if m := p.daysFrom.FindStringSubmatch(text); m != nil {
		n, errN := strconv.Atoi(m[1])
		start, ok := parseRelativeDate(m[2], now)
		if errN == nil && ok {
			return orderedPair(start, start.AddDate(0, 0, n-1)), ""
		}
	}
	if m := p.forNDays.FindStringSubmatch(text); m != nil {
		start, ok := parseRelativeDate(m[1], now)
		n, errN := strconv.Atoi(m[2])
		if ok && errN == nil {
			return orderedPair(start, start.AddDate(0, 0, n-1)), ""
		}
	}

	if d, ok := searchSingleDate(text, now); ok {
		return []time.Time{d}, ""
	}

	return nil, "could not determine a travel date range"
}

func orderedPair(a, b time.Time) []time.Time {
	if a.After(b) {
		a, b = b, a
	}
	if a.Equal(b) || a.Truncate(24*time.Hour).Equal(b.Truncate(24 * time.Hour)) {
		return []time.Time{a}
	}
	return []time.Time{a, b}
}

var (
	monthNames = map[string]time.Month{
		"january": time.January, "february": time.February, "march": time.March,
		"april": time.April, "may": time.May, "june": time.June,
		"july": time.July, "august": time.August, "september": time.September,
		"october": time.October, "november": time.November, "december": time.December,
	}
	monthDayRe  = regexp.MustCompile(`(?i)(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})`)
	relativeMap = map[string]func(time.Time) time.Time{
		"today":         func(t time.Time) time.Time { return t },
		"tomorrow":      func(t time.Time) time.Time { return t.AddDate(0, 0, 1) },
		"next week":     func(t time.Time) time.Time { return t.AddDate(0, 0, 7) },
		"next month":    func(t time.Time) time.Time { return t.AddDate(0, 1, 0) },
	}
)

// parseRelativeDate understands a small set of absolute ("March 15") and
// relative ("next month", "tomorrow") expressions, always preferring a
// future instance — the Go-native analogue of dateparser's
// PREFER_DATES_FROM=future setting.
func parseRelativeDate(fragment string, now time.Time) (time.Time, bool) {
	f := strings.ToLower(strings.TrimSpace(fragment))
	for phrase, fn := range relativeMap {
		if strings.Contains(f, phrase) {
			return fn(now), true
		}
	}
	if m := monthDayRe.FindStringSubmatch(f); m != nil {
		month := monthNames[strings.ToLower(m[1])]
		day, err := strconv.Atoi(m[2])
		if err == nil {
			year := now.Year()
			candidate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			if candidate.Before(now) {
				candidate = time.Date(year+1, month, day, 0, 0, 0, 0, time.UTC)
			}
			return candidate, true
		}
	}
	return time.Time{}, false
}

func searchSingleDate(text string, now time.Time) (time.Time, bool) {
	if m := monthDayRe.FindStringSubmatch(text); m != nil {
		if strings.Contains(m[0], "$") {
			return time.Time{}, false
		}
		return parseRelativeDate(m[0], now)
	}
	for phrase, fn := range relativeMap {
		if strings.Contains(strings.ToLower(text), phrase) {
			return fn(now), true
		}
	}
	return time.Time{}, false
}
