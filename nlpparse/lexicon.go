package nlpparse

import (
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`[A-Za-z][A-Za-z'-]*`)

// extractLocations pulls known place names out of the text, preserving
// order of first mention. This replaces the source's spaCy GPE/LOC entity
// recognizer with a curated gazetteer, the pragmatic equivalent available
// without an NLP library in the dependency pack (see DESIGN.md).
func (p *Parser) extractLocations(text string) []string {
	var found []string
	seen := map[string]bool{}
	words := wordRe.FindAllString(text, -1)

	for i := 0; i < len(words); i++ {
		// Try two-word place names first ("New York", "Los Angeles").
		if i+1 < len(words) {
			two := words[i] + " " + words[i+1]
			if p.gazetteer[strings.ToLower(two)] && !seen[two] {
				found = append(found, two)
				seen[two] = true
				i++
				continue
			}
		}
		if p.gazetteer[strings.ToLower(words[i])] && !seen[words[i]] {
			found = append(found, words[i])
			seen[words[i]] = true
		}
	}
	return found
}

// extractInterests returns content words that are not locations and not
// stop words — the Go analogue of the source's "NOUN/PROPN minus locations
// & dates" filter, applied over the word list directly since Go has no
// bundled POS tagger. Date-bearing fragments are already excluded by the
// stop-word list (month names, "starting", "between", ...).
func (p *Parser) extractInterests(text string, locations []string) []string {
	locSet := map[string]bool{}
	for _, l := range locations {
		locSet[strings.ToLower(l)] = true
	}

	var interests []string
	seen := map[string]bool{}
	for _, w := range wordRe.FindAllString(text, -1) {
		lw := strings.ToLower(w)
		if len(w) < 3 {
			continue
		}
		if p.stopWords[lw] || locSet[lw] || p.gazetteer[lw] {
			continue
		}
		lemma := lemmatize(lw)
		if seen[lemma] {
			continue
		}
		seen[lemma] = true
		interests = append(interests, lemma)
	}
	return interests
}

// lemmatize strips a handful of common noun suffixes. It is intentionally
// small: a full lemmatizer is out of scope for this core, and the pack
// carries no morphology library.
func lemmatize(word string) string {
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "es") && len(word) > 4:
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") && len(word) > 3:
		return word[:len(word)-1]
	default:
		return word
	}
}

func defaultGazetteer() map[string]bool {
	names := []string{
		"paris", "london", "tokyo", "new york", "maldives", "peru",
		"rome", "barcelona", "berlin", "amsterdam", "dubai", "singapore",
		"bangkok", "sydney", "toronto", "san francisco", "los angeles",
		"chicago", "miami", "madrid", "lisbon", "vienna", "prague",
		"istanbul", "cairo", "marrakech", "bali", "kyoto", "seoul",
		"hong kong", "shanghai", "beijing", "mumbai", "delhi", "rio de janeiro",
		"buenos aires", "cape town", "nairobi", "machu picchu", "ogdenville",
		"france", "england", "japan", "peru", "italy", "spain", "germany",
	}
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func defaultStopWords() map[string]bool {
	words := []string{
		"the", "a", "an", "and", "or", "but", "to", "from", "with", "for",
		"of", "in", "on", "at", "by", "is", "are", "was", "were", "be",
		"been", "being", "have", "has", "had", "do", "does", "did", "will",
		"would", "could", "should", "this", "that", "these", "those",
		"plan", "trip", "include", "need", "budget", "days", "day",
		"starting", "until", "between", "next", "month", "week",
		"january", "february", "march", "april", "may", "june", "july",
		"august", "september", "october", "november", "december",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
