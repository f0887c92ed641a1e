// Package scorer implements the Sparse Similarity Scorer (C2): one
// independent instance per catalog class, each built from an immutable
// (vectorizer, matrix, id_map) artifact triple and exposing TopK cosine
// similarity search. Grounded on the source's MLModelManager
// (backend/app/api/recommend.py) and load_ml_models (backend/app/api/
// itinerary.py), translated from scikit-learn's TfidfVectorizer into a
// hand-rolled Go sparse TF-IDF representation since no vector-similarity
// library appears anywhere in the example pack (documented in DESIGN.md).
package scorer

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"itineraryplanner/planner"
)

// Vectorizer maps terms to column indices and IDF weights, with a bounded
// vocabulary and English stop-word list, mirroring scikit-learn's
// TfidfVectorizer(max_features=..., stop_words="english", ngram_range=(1,2)).
type Vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	MaxFeatures int           `json:"max_features"`
	NGramMax    int           `json:"ngram_max"`
	StopWords   map[string]bool `json:"-"`
}

// SparseRow is one row of the offline-built, L2-normalized term-document
// matrix, stored as (column, weight) pairs.
type SparseRow map[int]float64

// Matrix is the row-wise L2-normalized sparse matrix M, shape
// (num_items, num_terms).
type Matrix []SparseRow

// IDMap maps row index to catalog id, the ordered array described in §4.2.
type IDMap []uuid.UUID

// Artifacts is the immutable triple backing one class's Scorer.
type Artifacts struct {
	Vectorizer Vectorizer
	Matrix     Matrix
	IDMap      IDMap
}

var defaultEnglishStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"to": true, "in": true, "on": true, "for": true, "with": true, "is": true,
	"are": true, "at": true, "by": true, "from": true, "this": true, "that": true,
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

// LoadArtifacts reads the three artifact files for a class from dir, named
// "vectorizer.<class>.json", "matrix.<class>.json", "id_map.<class>.json",
// per §6's artifact layout. Load failure here is fatal at startup, exactly
// as the spec requires for the scorer class of artifacts.
func LoadArtifacts(dir, class string) (*Artifacts, error) {
	var v Vectorizer
	if err := readJSON(filepath.Join(dir, fmt.Sprintf("vectorizer.%s.json", class)), &v); err != nil {
		return nil, fmt.Errorf("load vectorizer for %s: %w", class, err)
	}
	v.StopWords = defaultEnglishStopWords

	var rows []map[string]float64
	if err := readJSON(filepath.Join(dir, fmt.Sprintf("matrix.%s.json", class)), &rows); err != nil {
		return nil, fmt.Errorf("load matrix for %s: %w", class, err)
	}
	matrix := make(Matrix, len(rows))
	for i, row := range rows {
		sr := make(SparseRow, len(row))
		for k, val := range row {
			var col int
			if _, err := fmt.Sscanf(k, "%d", &col); err != nil {
				return nil, fmt.Errorf("matrix for %s: bad column key %q", class, k)
			}
			sr[col] = val
		}
		matrix[i] = sr
	}

	var rawIDs []string
	if err := readJSON(filepath.Join(dir, fmt.Sprintf("id_map.%s.json", class)), &rawIDs); err != nil {
		return nil, fmt.Errorf("load id_map for %s: %w", class, err)
	}
	ids := make(IDMap, len(rawIDs))
	for i, s := range rawIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("id_map for %s: invalid uuid %q", class, s)
		}
		ids[i] = id
	}

	return &Artifacts{Vectorizer: v, Matrix: matrix, IDMap: ids}, nil
}

func readJSON(path string, out interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// normalize lowercases, strips non-alphanumerics, and collapses whitespace
// before tokenizing — step 1 of the top_k operation and grounded exactly on
// the source's `clean(text)` helper in recommend.py.
func normalize(text string) string {
	return strings.Join(tokenRe.FindAllString(strings.ToLower(text), -1), " ")
}

// transform builds a sparse, L2-normalized TF-IDF query vector for text
// against v's vocabulary, including bigrams up to NGramMax.
func transform(v Vectorizer, text string) SparseRow {
	tokens := strings.Fields(normalize(text))
	var grams []string
	for _, t := range tokens {
		if v.StopWords[t] {
			continue
		}
		grams = append(grams, t)
	}
	if v.NGramMax >= 2 {
		for i := 0; i+1 < len(grams); i++ {
			grams = append(grams, grams[i]+" "+grams[i+1])
		}
	}

	tf := map[int]float64{}
	for _, g := range grams {
		if col, ok := v.Vocabulary[g]; ok {
			tf[col]++
		}
	}

	vec := make(SparseRow, len(tf))
	var sumSq float64
	for col, count := range tf {
		idf := 1.0
		if col < len(v.IDF) {
			idf = v.IDF[col]
		}
		w := count * idf
		vec[col] = w
		sumSq += w * w
	}
	if sumSq == 0 {
		return vec
	}
	norm := math.Sqrt(sumSq)
	for col := range vec {
		vec[col] /= norm
	}
	return vec
}

func dot(a, b SparseRow) float64 {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	var sum float64
	for col, val := range small {
		if other, ok := large[col]; ok {
			sum += val * other
		}
	}
	return sum
}

type scoredID struct {
	id    uuid.UUID
	score float64
	row   int
}

// topK computes scores = M . qᵀ and returns the k indices with the largest
// scores, ties broken by descending score then ascending row index, per
// §4.2 step 4.
func topK(a *Artifacts, query SparseRow, k int) []scoredID {
	scored := make([]scoredID, 0, len(a.Matrix))
	for i, row := range a.Matrix {
		s := dot(row, query)
		scored = append(scored, scoredID{id: a.IDMap[i], score: s, row: i})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].row < scored[j].row
	})
	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

// RequiredStartupKind classifies artifact load failure for a scorer class:
// always fatal, per §4.2's failure semantics and §5's startup resource
// policy.
const RequiredStartupKind = planner.ScoringUnavailable
