package scorer

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"itineraryplanner/planner"
)

// Class identifies which of the four independent scorer instances to use.
type Class string

const (
	ClassDestination    Class = "destination"
	ClassActivity       Class = "activity"
	ClassAccommodation  Class = "accommodation"
	ClassTransportation Class = "transportation"
)

// dropZeroScores lists the classes that drop zero-score matches from top_k;
// destinations keep the full top-k regardless of score, per §4.2 step 5.
var dropZeroScores = map[Class]bool{
	ClassActivity:       true,
	ClassAccommodation:  true,
	ClassTransportation: true,
}

// Scorer is one of the four class-specific similarity search instances.
type Scorer struct {
	class     Class
	artifacts *Artifacts
	cache     *redisCache
	log       *zap.Logger
}

// New constructs a Scorer. cache may be nil to disable result caching.
func New(class Class, artifacts *Artifacts, cache *redis.Client, log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	var rc *redisCache
	if cache != nil {
		rc = &redisCache{client: cache, ttl: 5 * time.Minute}
	}
	return &Scorer{class: class, artifacts: artifacts, cache: rc, log: log}
}

// TopK returns the k best-matching catalog ids for text, per §4.2's
// operation contract. Runtime failures (none expected from the pure
// in-memory computation, but a cache-backed implementation may surface
// connectivity errors) are classified as SCORING_UNAVAILABLE.
func (s *Scorer) TopK(ctx context.Context, text string, k int) ([]uuid.UUID, error) {
	if s.cache != nil {
		if ids, ok := s.cache.get(ctx, s.class, text, k); ok {
			return ids, nil
		}
	}

	query := transform(s.artifacts.Vectorizer, text)
	scored := topK(s.artifacts, query, k)

	var ids []uuid.UUID
	for _, sc := range scored {
		if dropZeroScores[s.class] && sc.score <= 0 {
			continue
		}
		ids = append(ids, sc.id)
	}

	if s.cache != nil {
		s.cache.set(ctx, s.class, text, k, ids)
	}

	return ids, nil
}

// Registry holds the four independent scorer instances the core fans out
// to, grounded on the source's MLModelManager._load_models, which loads all
// four classes at startup and keeps them resident for the process lifetime.
type Registry struct {
	Destination    *Scorer
	Activity       *Scorer
	Accommodation  *Scorer
	Transportation *Scorer
}

// LoadRegistry loads all four artifact triples from dir and wires a shared
// Redis cache (nil-safe) across every class instance. Any load failure is
// fatal for the whole registry, per §5's "failure to load the scorer
// artifacts is fatal".
func LoadRegistry(dir string, cache *redis.Client, log *zap.Logger) (*Registry, error) {
	classes := []Class{ClassDestination, ClassActivity, ClassAccommodation, ClassTransportation}
	scorers := make(map[Class]*Scorer, len(classes))
	for _, c := range classes {
		artifacts, err := LoadArtifacts(dir, string(c))
		if err != nil {
			return nil, planner.Wrap(planner.ScoringUnavailable, fmt.Sprintf("failed to load %s scorer artifacts", c), err)
		}
		scorers[c] = New(c, artifacts, cache, log)
	}
	return &Registry{
		Destination:    scorers[ClassDestination],
		Activity:       scorers[ClassActivity],
		Accommodation:  scorers[ClassAccommodation],
		Transportation: scorers[ClassTransportation],
	}, nil
}

// redisCache memoizes TopK results for a (class, text, k) key within a
// short TTL, enriching the pure in-memory scorer with the cross-request
// cache layer wired in from fweilun-Ark's Redis usage — never a source of
// truth, purely an optimization over re-vectorizing identical queries.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisCache) key(class Class, text string, k int) string {
	h := sha1.Sum([]byte(text))
	return fmt.Sprintf("scorer:%s:%d:%s", class, k, hex.EncodeToString(h[:]))
}

func (c *redisCache) get(ctx context.Context, class Class, text string, k int) ([]uuid.UUID, bool) {
	raw, err := c.client.Get(ctx, c.key(class, text, k)).Result()
	if err != nil {
		return nil, false
	}
	var ids []uuid.UUID
	for _, s := range splitComma(raw) {
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, true
}

func (c *redisCache) set(ctx context.Context, class Class, text string, k int, ids []uuid.UUID) {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	c.client.Set(ctx, c.key(class, text, k), joinComma(strs), c.ttl)
}

func splitComma(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}
