package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"itineraryplanner/planner"
)

func TestStatusForErrorMapsEachKindToExpectedStatus(t *testing.T) {
	tests := []struct {
		kind planner.Kind
		want int
	}{
		{planner.InvalidInput, http.StatusBadRequest},
		{planner.DestinationNotFound, http.StatusNotFound},
		{planner.EmptyPlan, http.StatusNotFound},
		{planner.DeadlineExceeded, http.StatusGatewayTimeout},
		{planner.RepositoryUnavailable, http.StatusServiceUnavailable},
		{planner.ScoringUnavailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		err := planner.New(tt.kind, "boom")
		assert.Equal(t, tt.want, statusForError(err), "kind %s", tt.kind)
	}
}

func TestStatusForErrorDefaultsToInternalServerErrorForUnknownErrors(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusForError(errors.New("plain error")))
}
