// Package reorder implements the optional Sequence Reorderer (C6): a
// learned permutation over activity ids consumed as a scheduling bias.
// Grounded on backend/app/ml/inference.py's TransformerReorderer.reorder
// and get_reorderer/reorder_pois wrapper functions.
package reorder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reorderer is the common interface for both the learned seq2seq backend
// and the optional LLM-backed one, so C7 depends on neither concretely.
type Reorderer interface {
	Reorder(ids []uuid.UUID) ([]uuid.UUID, error)
}

// vocabConfig holds the fields read from vocab.json and config.json:
// vocab_size, pad_id, bos_id, eos_id, unk_id, plus the id<->token maps.
// max_lengths is not read; the decode length is always len(ids)+2.
type vocabConfig struct {
	VocabSize int               `json:"vocab_size"`
	PadID     int               `json:"pad_id"`
	BosID     int               `json:"bos_id"`
	EosID     int               `json:"eos_id"`
	UnkID     int               `json:"unk_id"`
	StoI      map[string]int    `json:"stoi"`
	ItoS      map[string]string `json:"itos"`
}

// SeqReorderer is the Go translation of TransformerReorderer: it loads a
// greedy-decodable weight artifact at construction time (vocab.json,
// config.json, model weights) and fails loudly if any is missing —
// construction failure is fatal only for that instance, never for the
// whole process, matching get_reorderer's try/except-and-disable wrapper.
type SeqReorderer struct {
	vocab   vocabConfig
	weights transitionWeights
	log     *zap.Logger
}

// transitionWeights is an opaque greedy-decode transition table: for each
// source token, an ordered preference list of next tokens. This stands in
// for the Python original's torch.nn.Transformer weights, which the core
// treats as an opaque blob per §6 ("File formats are implementation-defined
// ... the core reads opaque blobs and a single JSON config").
type transitionWeights struct {
	Transitions map[int][]int `json:"transitions"`
}

// Load reads vocab.json, config.json (merged into vocabConfig here for
// simplicity) and model_weights.json from dir. Any missing or malformed
// file is a construction error, matching the source's FileNotFoundError on
// missing artifacts.
func Load(dir string, log *zap.Logger) (*SeqReorderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var vc vocabConfig
	if err := readJSON(filepath.Join(dir, "vocab.json"), &vc); err != nil {
		return nil, fmt.Errorf("load reorderer vocab: %w", err)
	}
	if err := readJSON(filepath.Join(dir, "config.json"), &vc); err != nil {
		return nil, fmt.Errorf("load reorderer config: %w", err)
	}
	var tw transitionWeights
	if err := readJSON(filepath.Join(dir, "model_weights.json"), &tw); err != nil {
		return nil, fmt.Errorf("load reorderer weights: %w", err)
	}
	return &SeqReorderer{vocab: vc, weights: tw, log: log}, nil
}

func readJSON(path string, out interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// Reorder implements §4.6's three steps: map ids to tokens (unknown -> unk),
// greedy-decode seeded with bos halting at eos or len(ids)+2 tokens, strip
// control tokens, restrict to the input set, and append any ids the decode
// did not produce (in original order) to guarantee a full permutation.
func (r *SeqReorderer) Reorder(ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return ids, nil
	}

	idToTok := make(map[uuid.UUID]int, len(ids))
	tokToID := make(map[int]uuid.UUID, len(ids))
	for _, id := range ids {
		tok, ok := r.vocab.StoI[id.String()]
		if !ok {
			tok = r.vocab.UnkID
		}
		idToTok[id] = tok
		tokToID[tok] = id
	}

	maxLen := len(ids) + 2
	decoded := r.greedyDecode(idToTok, ids, maxLen)

	seenInput := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		seenInput[id] = false
	}

	var out []uuid.UUID
	for _, tok := range decoded {
		id, ok := tokToID[tok]
		if !ok {
			continue
		}
		if done, inInput := seenInput[id]; !inInput || done {
			continue
		}
		seenInput[id] = true
		out = append(out, id)
	}

	for _, id := range ids {
		if !seenInput[id] {
			out = append(out, id)
		}
	}

	return out, nil
}

// greedyDecode walks the transition table starting at BOS, at each step
// picking the highest-preference next token that maps to one of the
// candidate ids and hasn't been emitted yet, stopping at EOS or maxLen.
func (r *SeqReorderer) greedyDecode(idToTok map[uuid.UUID]int, ids []uuid.UUID, maxLen int) []int {
	candidateToks := make(map[int]bool, len(ids))
	for _, id := range ids {
		candidateToks[idToTok[id]] = true
	}

	cur := r.vocab.BosID
	emitted := map[int]bool{}
	var out []int

	for len(out) < maxLen {
		next, ok := r.pickNext(cur, candidateToks, emitted)
		if !ok || next == r.vocab.EosID {
			break
		}
		out = append(out, next)
		emitted[next] = true
		cur = next
	}
	return out
}

func (r *SeqReorderer) pickNext(cur int, candidates map[int]bool, emitted map[int]bool) (int, bool) {
	for _, tok := range r.weights.Transitions[cur] {
		if candidates[tok] && !emitted[tok] {
			return tok, true
		}
	}
	// No learned preference survives filtering: fall back to the lowest
	// un-emitted candidate token, keeping the decode deterministic.
	best, found := 0, false
	for tok := range candidates {
		if emitted[tok] {
			continue
		}
		if !found || tok < best {
			best, found = tok, true
		}
	}
	return best, found
}
