package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"unitfinder/internal/cache"
	"unitfinder/internal/config"
	"unitfinder/internal/handler"
	"unitfinder/internal/observability"
	"unitfinder/internal/repository"
	"unitfinder/internal/scraper"
	"unitfinder/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Printf("DLD Unit Finder")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Connect to the registry snapshot
	registry, err := repository.NewPostgresRegistry(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.Table,
		cfg.Search.RowCap,
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to registry database: %v", err)
	}
	defer registry.Close()

	log.Println("✅ Connected to registry database")

	// Initialize the matching core
	extractor := service.NewPhraseExtractor(cfg.Search.MinPhraseLength)
	searcher := service.NewCandidateSearcher(cfg.Search.ZoneStrategy)
	ranker := service.NewRanker(cfg.Search.BandHigh, cfg.Search.BandMedium)
	matcher := service.NewMatcher(registry, extractor, searcher, ranker, cfg.Search.MaxResults)

	listingScraper := scraper.NewScraper(cfg.Scraper.Timeout, cfg.Scraper.UserAgent)

	lookupCache := cache.New(cfg.Cache.RedisAddr, cfg.Cache.TTL)
	if lookupCache != nil {
		defer lookupCache.Close()
		log.Printf("✅ Lookup cache enabled (redis %s, ttl %s)", cfg.Cache.RedisAddr, cfg.Cache.TTL)
	} else {
		log.Println("⚠️  Lookup cache disabled - set REDIS_ADDR to enable")
	}

	observability.Register()

	log.Println("✅ Services initialized")

	// Initialize handlers
	lookupHandler := handler.NewLookupHandler(listingScraper, matcher, lookupCache)
	registryHandler := handler.NewRegistryHandler(registry)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "dld-unit-finder",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(observability.Handler()))
	}

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/lookup", lookupHandler.Lookup)
		apiV1.POST("/match", lookupHandler.Match)
		apiV1.GET("/registry/stats", registryHandler.Stats)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API: http://localhost:%d/api/v1", cfg.Server.Port)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}
