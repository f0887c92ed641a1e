package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"itineraryplanner/nlpparse"
	"itineraryplanner/plan"
	"itineraryplanner/planner"
)

// nlpInspector exposes C1 standalone, for the /nlp/* conveniences —
// grounded on the source's separate /nlp router (backend/app/api/nlp.py)
// which parses without running the rest of the pipeline.
type nlpInspector struct {
	parser *nlpparse.Parser
}

// NewNLPInspector wraps a Parser for the boundary-only /nlp endpoints.
func NewNLPInspector(p *nlpparse.Parser) *nlpInspector {
	return &nlpInspector{parser: p}
}

type generateRequest struct {
	Text         string   `json:"text" binding:"required"`
	UserID       string   `json:"user_id"`
	UseReorderer *bool    `json:"use_reorderer,omitempty"`
	RadiusKM     *int     `json:"radius_km,omitempty"`
	Budget       *float64 `json:"budget,omitempty"`
}

func handleGenerate(assembler *plan.Assembler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		itin, err := assembler.Generate(c.Request.Context(), req.Text, plan.CallerContext{UserID: req.UserID}, plan.Overrides{
			UseReorderer: req.UseReorderer,
			RadiusKM:     req.RadiusKM,
			Budget:       req.Budget,
		})
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, itin)
	}
}

func statusForError(err error) int {
	switch {
	case planner.Is(err, planner.InvalidInput):
		return http.StatusBadRequest
	case planner.Is(err, planner.DestinationNotFound), planner.Is(err, planner.EmptyPlan):
		return http.StatusNotFound
	case planner.Is(err, planner.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case planner.Is(err, planner.RepositoryUnavailable), planner.Is(err, planner.ScoringUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type reorderPreviewRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func handleReorderPreview(assembler *plan.Assembler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reorderPreviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ids := make([]uuid.UUID, 0, len(req.IDs))
		for _, s := range req.IDs {
			id, err := uuid.Parse(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id: " + s})
				return
			}
			ids = append(ids, id)
		}
		out := assembler.ReorderPreview(ids)
		c.JSON(http.StatusOK, gin.H{"ids": out})
	}
}

func handleRegenerateDay(assembler *plan.Assembler) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Existing-itinerary lookup and the candidate pool are persistence
		// concerns outside the core's scope (§1); this handler documents the
		// boundary contract shape only.
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "regenerate_day requires a persisted itinerary store, which is outside the core's scope",
		})
	}
}

type parseRequest struct {
	Text string `json:"text" binding:"required,min=1,max=2000"`
}

func handleParse(insp *nlpInspector) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req parseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		parsed, err := insp.parser.Parse(req.Text)
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, parsed)
	}
}

func handleParseBatch(insp *nlpInspector) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reqs []parseRequest
		if err := c.ShouldBindJSON(&reqs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(reqs) > 10 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "too many requests (max 10)"})
			return
		}
		type result struct {
			Index  int                    `json:"index"`
			Parsed *planner.ParsedRequest `json:"parsed_data,omitempty"`
			Error  string                 `json:"error,omitempty"`
		}
		results := make([]result, 0, len(reqs))
		for i, req := range reqs {
			parsed, err := insp.parser.Parse(req.Text)
			if err != nil {
				results = append(results, result{Index: i, Error: err.Error()})
				continue
			}
			results = append(results, result{Index: i, Parsed: &parsed})
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

func handleSamples(c *gin.Context) {
	samples := []gin.H{
		{"description": "Basic trip request", "text": "Plan a trip to Paris next month with a budget of $2000. Include sightseeing and local cuisine."},
		{"description": "Family vacation request", "text": "Plan a 7-day family vacation to Tokyo in December. Budget $5000. Include kid-friendly activities and 4-star hotels."},
		{"description": "Business trip request", "text": "Business trip to New York from London, March 15-20. Need flights and hotel near downtown. Budget $3000."},
		{"description": "Adventure trip request", "text": "Adventure trip to Peru for 10 days. Include hiking, Machu Picchu, and local culture. Budget $4000."},
		{"description": "Luxury trip request", "text": "Luxury 5-day trip to Maldives. Include private villa, spa treatments, and fine dining. Budget $15000."},
	}
	c.JSON(http.StatusOK, gin.H{"samples": samples, "count": len(samples)})
}
