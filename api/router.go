// Package api is the deliberately thin HTTP boundary around the core:
// §1 specifies HTTP transport only as a boundary contract, so every
// handler here does request/response shuttling and nothing else. Grounded
// on the teacher's app.go route-group layout and gin usage.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"itineraryplanner/middlewares"
	"itineraryplanner/plan"
)

// NewRouter builds the Gin engine exposing generate and reorder_preview
// alongside the sample/batch parsing conveniences from SPEC_FULL.md §5.
// The regenerate_day route is registered but always answers 501, since no
// persisted itinerary store exists.
func NewRouter(assembler *plan.Assembler, parser *nlpInspector) *gin.Engine {
	r := gin.Default()
	r.Use(middlewares.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/itineraries/generate", handleGenerate(assembler))
		v1.POST("/itineraries/reorder-preview", handleReorderPreview(assembler))
		v1.POST("/itineraries/:id/days/:day/regenerate", handleRegenerateDay(assembler))

		nlp := v1.Group("/nlp")
		{
			nlp.POST("/parse", handleParse(parser))
			nlp.POST("/parse-batch", handleParseBatch(parser))
			nlp.GET("/samples", handleSamples)
		}
	}

	return r
}
