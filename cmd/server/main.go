// Command server is the process entrypoint, grounded on the teacher's
// app.go: load config, connect dependencies, wire the pipeline, and serve.
package main

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"itineraryplanner/api"
	"itineraryplanner/catalog"
	"itineraryplanner/config"
	"itineraryplanner/nlpparse"
	"itineraryplanner/plan"
	"itineraryplanner/poi"
	"itineraryplanner/reorder"
	"itineraryplanner/router"
	"itineraryplanner/scorer"
)

func main() {
	cfg := config.Load()
	zlog := config.NewLogger()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	if err := db.AutoMigrate(catalog.Models()...); err != nil {
		log.Fatalf("automigrate catalog: %v", err)
	}
	gateway := catalog.NewGormGateway(db)

	var geocoder catalog.Geocoder
	if cfg.GoogleMapsAPIKey != "" {
		g, err := catalog.NewGoogleGeocoder(cfg.GoogleMapsAPIKey)
		if err != nil {
			zlog.Warn("google geocoder disabled: " + err.Error())
		} else {
			geocoder = g
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zlog.Warn("invalid REDIS_URL, scorer cache disabled: " + err.Error())
		} else {
			redisClient = redis.NewClient(opt)
		}
	}

	scorers, err := scorer.LoadRegistry(cfg.ArtifactDir, redisClient, zlog)
	if err != nil {
		log.Fatalf("scorer artifacts unavailable: %v", err)
	}

	var llmReorder reorder.Reorderer
	if cfg.ReordererBackend == "llm" && cfg.GeminiAPIKey != "" {
		if r, err := reorder.NewLLMReorderer(context.Background(), cfg.GeminiAPIKey); err == nil {
			llmReorder = r
		} else {
			zlog.Warn("llm reorderer disabled: " + err.Error())
		}
	}
	reordererRegistry := reorder.NewRegistry(cfg.ReordererEnabled, cfg.ReordererBackend, cfg.ArtifactDir, llmReorder, zlog)

	parser := nlpparse.New(zlog)
	poiBuilder := poi.New(gateway, zlog)
	rtr := router.New(cfg.GroundSpeedKPH)

	assembler := plan.New(parser, scorers, gateway, geocoder, poiBuilder, rtr, reordererRegistry, plan.Config{
		DefaultRadiusKM:    cfg.DefaultRadiusKM,
		MaxItineraryDays:   cfg.MaxItineraryDays,
		GroundSpeedKPH:     cfg.GroundSpeedKPH,
		BudgetFraction:     cfg.BudgetFraction,
		CandidateK:         cfg.CandidateK,
		AccommodationFloor: cfg.AccommodationFloor,
		AccommodationCap:   cfg.AccommodationCap,
		AdaptiveRadiiM:     cfg.AdaptiveRadiiM,
		SoftDeadline:       secondsToDuration(cfg.SoftDeadlineSeconds),
	}, zlog)

	inspector := api.NewNLPInspector(parser)
	r := api.NewRouter(assembler, inspector)

	zlog.Info("itinerary planner listening on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
