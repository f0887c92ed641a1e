package scorer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVectorizer() Vectorizer {
	return Vectorizer{
		Vocabulary: map[string]int{"museum": 0, "beach": 1, "hiking": 2},
		IDF:        []float64{1.0, 1.0, 1.0},
		NGramMax:   1,
		StopWords:  defaultEnglishStopWords,
	}
}

func testArtifacts() *Artifacts {
	id0, id1, id2 := uuid.New(), uuid.New(), uuid.New()
	return &Artifacts{
		Vectorizer: testVectorizer(),
		Matrix: Matrix{
			SparseRow{0: 1.0},
			SparseRow{1: 1.0},
			SparseRow{2: 1.0},
		},
		IDMap: IDMap{id0, id1, id2},
	}
}

func TestNormalizeLowercasesAndStripsPunctuation(t *testing.T) {
	assert.Equal(t, "museum tour downtown", normalize("Museum, Tour!! Downtown."))
}

func TestTransformProducesUnitNormVector(t *testing.T) {
	v := testVectorizer()
	vec := transform(v, "a lovely museum visit")
	var sumSq float64
	for _, w := range vec {
		sumSq += w * w
	}
	assert.InDelta(t, 1.0, sumSq, 1e-9)
}

func TestTransformEmptyQueryYieldsEmptyVector(t *testing.T) {
	v := testVectorizer()
	vec := transform(v, "the a an of")
	assert.Empty(t, vec)
}

func TestTopKOrdersByDescendingScoreThenRowIndex(t *testing.T) {
	a := testArtifacts()
	query := SparseRow{0: 1.0}
	results := topK(a, query, 3)
	require.Len(t, results, 3)
	assert.Equal(t, a.IDMap[0], results[0].id)
	assert.GreaterOrEqual(t, results[0].score, results[1].score)
	assert.GreaterOrEqual(t, results[1].score, results[2].score)
}

func TestTopKClampsToMatrixSize(t *testing.T) {
	a := testArtifacts()
	results := topK(a, SparseRow{0: 1.0}, 100)
	assert.Len(t, results, 3)
}

func TestScorerTopKDropsZeroScoresForActivityClass(t *testing.T) {
	a := testArtifacts()
	s := New(ClassActivity, a, nil, nil)
	ids, err := s.TopK(context.Background(), "museum", 3)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
	assert.Equal(t, a.IDMap[0], ids[0])
}

func TestScorerTopKKeepsZeroScoresForDestinationClass(t *testing.T) {
	a := testArtifacts()
	s := New(ClassDestination, a, nil, nil)
	ids, err := s.TopK(context.Background(), "museum", 3)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}

func TestScorerTopKIsDeterministic(t *testing.T) {
	a := testArtifacts()
	s := New(ClassDestination, a, nil, nil)
	first, err := s.TopK(context.Background(), "museum beach", 3)
	require.NoError(t, err)
	second, err := s.TopK(context.Background(), "museum beach", 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSplitJoinCommaRoundTrip(t *testing.T) {
	ids := []string{"a", "b", "c"}
	joined := joinComma(ids)
	assert.Equal(t, ids, splitComma(joined))
}

func TestSplitCommaEmptyString(t *testing.T) {
	assert.Nil(t, splitComma(""))
}
