package reorder

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReorderEmptyInputReturnsEmpty(t *testing.T) {
	r := &SeqReorderer{
		vocab:   vocabConfig{StoI: map[string]int{}, UnkID: 0, BosID: 1, EosID: 2},
		weights: transitionWeights{Transitions: map[int][]int{}},
	}
	out, err := r.Reorder(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestReorderIsFullPermutationOfInput(t *testing.T) {
	id1, id2, id3 := uuid.New(), uuid.New(), uuid.New()
	r := &SeqReorderer{
		vocab: vocabConfig{
			StoI:  map[string]int{id1.String(): 10, id2.String(): 11, id3.String(): 12},
			UnkID: 0, BosID: 1, EosID: 2,
		},
		weights: transitionWeights{Transitions: map[int][]int{
			1:  {12, 11, 10},
			12: {11, 10},
			11: {10},
		}},
	}
	out, err := r.Reorder([]uuid.UUID{id1, id2, id3})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{id1, id2, id3}, out)
}

func TestReorderFollowsLearnedTransitionOrder(t *testing.T) {
	id1, id2, id3 := uuid.New(), uuid.New(), uuid.New()
	r := &SeqReorderer{
		vocab: vocabConfig{
			StoI:  map[string]int{id1.String(): 10, id2.String(): 11, id3.String(): 12},
			UnkID: 0, BosID: 1, EosID: 2,
		},
		weights: transitionWeights{Transitions: map[int][]int{
			1:  {12},
			12: {11},
			11: {10},
		}},
	}
	out, err := r.Reorder([]uuid.UUID{id1, id2, id3})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id3, id2, id1}, out)
}

func TestReorderUnknownIDFallsBackToUnkToken(t *testing.T) {
	known := uuid.New()
	unknown := uuid.New()
	r := &SeqReorderer{
		vocab: vocabConfig{
			StoI:  map[string]int{known.String(): 10},
			UnkID: 99, BosID: 1, EosID: 2,
		},
		weights: transitionWeights{Transitions: map[int][]int{1: {10}}},
	}
	out, err := r.Reorder([]uuid.UUID{known, unknown})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{known, unknown}, out)
}

func TestReorderDeterministicFallbackWhenNoLearnedTransition(t *testing.T) {
	id1, id2, id3 := uuid.New(), uuid.New(), uuid.New()
	r := &SeqReorderer{
		vocab: vocabConfig{
			StoI:  map[string]int{id1.String(): 10, id2.String(): 5, id3.String(): 20},
			UnkID: 0, BosID: 1, EosID: 2,
		},
		weights: transitionWeights{Transitions: map[int][]int{}},
	}
	first, err := r.Reorder([]uuid.UUID{id1, id2, id3})
	require.NoError(t, err)
	second, err := r.Reorder([]uuid.UUID{id1, id2, id3})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

type fakeReorderer struct {
	out []uuid.UUID
	err error
}

func (f *fakeReorderer) Reorder(ids []uuid.UUID) ([]uuid.UUID, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func TestRegistryDisabledPassesThroughUnchanged(t *testing.T) {
	reg := NewRegistry(false, "seq", "/nonexistent", nil, nil)
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	assert.False(t, reg.Enabled())
	assert.Equal(t, ids, reg.ReorderActivities(ids))
}

func TestRegistryFailedLoadDowngradesToDisabled(t *testing.T) {
	reg := NewRegistry(true, "seq", "/nonexistent/path/definitely", nil, nil)
	assert.False(t, reg.Enabled())
}

func TestRegistryRuntimeErrorFallsBackToOriginalOrder(t *testing.T) {
	reg := &Registry{impl: &fakeReorderer{err: errors.New("boom")}, enabled: true}
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	out := reg.ReorderActivities(ids)
	assert.Equal(t, ids, out)
}

func TestRegistryUsesLLMBackendWhenConfigured(t *testing.T) {
	want := []uuid.UUID{uuid.New()}
	llm := &fakeReorderer{out: want}
	reg := NewRegistry(true, "llm", "", llm, nil)
	require.True(t, reg.Enabled())
	assert.Equal(t, want, reg.ReorderActivities([]uuid.UUID{uuid.New()}))
}
