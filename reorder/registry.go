package reorder

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry wraps the active Reorderer (or none) so the rest of the core
// never deals with a nil interface; it presents ReorderActivities as a
// pure pass-through when disabled or when construction failed at startup,
// matching get_reorderer/reorder_pois's "catch load exceptions, log, and
// fall back to unchanged input" behavior.
type Registry struct {
	impl    Reorderer
	enabled bool
	log     *zap.Logger
}

// NewRegistry attempts to load the configured backend. A load failure
// downgrades the registry to disabled rather than aborting startup — C6 is
// the one component in §5 whose artifact failure is non-fatal.
func NewRegistry(enabled bool, backend, artifactDir string, llm Reorderer, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	if !enabled {
		return &Registry{enabled: false, log: log}
	}

	if backend == "llm" && llm != nil {
		return &Registry{impl: llm, enabled: true, log: log}
	}

	seq, err := Load(artifactDir, log)
	if err != nil {
		log.Warn("reorderer artifacts unavailable, disabling reorderer", zap.Error(err))
		return &Registry{enabled: false, log: log}
	}
	return &Registry{impl: seq, enabled: true, log: log}
}

// Enabled reports whether a reorder backend is active.
func (r *Registry) Enabled() bool {
	return r != nil && r.enabled && r.impl != nil
}

// ReorderActivities applies the active backend, falling back to the
// original order (and logging REORDERER_FAILED) on any runtime error —
// C6 failures never affect the pipeline outcome, per §7.
func (r *Registry) ReorderActivities(ids []uuid.UUID) []uuid.UUID {
	if !r.Enabled() {
		return ids
	}
	out, err := r.impl.Reorder(ids)
	if err != nil {
		r.log.Warn("reorderer failed, falling back to original order", zap.Error(err))
		return ids
	}
	return out
}
