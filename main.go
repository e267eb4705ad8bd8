package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"idea-hand/config"
	"idea-hand/models"
	"idea-hand/providers/brave"
	"idea-hand/providers/openai"
	"idea-hand/services"
	"idea-hand/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var newIdeasCounter prometheus.Counter

func init() {
	newIdeasCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "new_ideas_submitted_total",
			Help: "Total number of new content ideas submitted for analysis.",
		},
	)
	prometheus.MustRegister(newIdeasCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

// corsMiddleware setzt permissive CORS-Header auf jede Antwort;
// OPTIONS-Preflights werden mit 200 ohne Body beantwortet.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type, x-api-key, x-user-id")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to ideas database.")

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(&models.Idea{}, &models.DailyInsight{})

	// Setup Providers
	searchProvider := brave.NewFetcher(cfg, logging)
	completionProvider := openai.NewFetcher(cfg, logging)

	// Setup Services
	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}
	analyzeService := services.NewAnalyzeService(cfg, db, s3Client, logging, searchProvider, completionProvider)
	digestService := services.NewDigestService(cfg, db, logging, searchProvider, completionProvider)

	analysisQueue := services.NewAnalysisQueue(analyzeService, logging, cfg.AnalysisQueueSize)
	analysisQueue.Start(cfg.AnalysisWorkers)
	defer analysisQueue.Stop()

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "idea-hand"})
	})

	// Setup Routes
	setupIdeaRoutes(router, db, analysisQueue, logging)
	setupAnalysisRoutes(router, analyzeService, logging)
	setupInsightRoutes(router, db, digestService, logging)

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.DigestCron, func() {
		logging.Info("Running scheduled digest job...")
		if _, err := digestService.GenerateDaily(context.Background()); err != nil {
			logging.Error("Digest cron job failed", zap.Error(err))
		}
	})
	cronScheduler.AddFunc(cfg.ReaperCron, func() {
		staleAfter := time.Duration(cfg.StaleAnalysisMinutes) * time.Minute
		if _, err := analyzeService.ReapStale(staleAfter); err != nil {
			logging.Error("Reaper cron job failed", zap.Error(err))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// Der synchrone /analyze-Trigger wartet auf Suche + Completion.
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// setupIdeaRoutes konfiguriert Einreichung und Abfragen von Ideen.
func setupIdeaRoutes(router *gin.Engine, db *gorm.DB, queue *services.AnalysisQueue, log *zap.Logger) {
	rg := router.Group("/ideas")

	// POST - Submission Intake: Zeile anlegen und Analyse einreihen,
	// ohne auf das Ergebnis zu warten.
	rg.POST("/", func(c *gin.Context) {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			RawContent  string `json:"raw_content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}

		// Status direkt auf "analyzing": die Arbeit ist beim Antworten
		// bereits eingereiht.
		idea := models.Idea{
			Title:          strings.TrimSpace(req.Title),
			Description:    req.Description,
			RawContent:     req.RawContent,
			UserID:         userID,
			AnalysisStatus: models.AnalysisStatusAnalyzing,
			ProjectStatus:  models.ProjectStatusNew,
		}
		if err := db.Create(&idea).Error; err != nil {
			log.Error("Failed to create idea", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create idea"})
			return
		}

		if !queue.Enqueue(idea.ID) {
			// Bekannte Randbedingung: die Zeile bleibt in "analyzing",
			// bis der Reaper sie einsammelt.
			log.Error("Analysis queue full, dispatch dropped", zap.Uint("idea_id", idea.ID))
		}
		newIdeasCounter.Inc()

		log.Info("Idea submitted", zap.Uint("id", idea.ID), zap.String("title", idea.Title))
		c.JSON(http.StatusCreated, idea)
	})

	rg.GET("/", func(c *gin.Context) {
		var ideas []models.Idea
		if err := db.Order("created_at desc").Find(&ideas).Error; err != nil {
			log.Error("Database query for all ideas failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, ideas)
	})

	rg.GET("/:id", func(c *gin.Context) {
		id := c.Param("id")
		var idea models.Idea
		if err := db.First(&idea, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
				return
			}
			log.Error("DB error fetching idea", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, idea)
	})

	// PATCH - Projekt-Status; team-weit änderbar, unabhängig vom Analyse-Status.
	rg.PATCH("/:id", func(c *gin.Context) {
		id := c.Param("id")
		var idea models.Idea
		if err := db.First(&idea, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
				return
			}
			log.Error("DB error checking for idea on PATCH", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		var payload struct {
			ProjectStatus string `json:"project_status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project_status is required"})
			return
		}
		if !models.ValidProjectStatus(payload.ProjectStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_status"})
			return
		}

		if err := db.Model(&idea).Update("project_status", payload.ProjectStatus).Error; err != nil {
			log.Error("DB error updating idea", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update idea"})
			return
		}
		c.JSON(http.StatusOK, idea)
	})

	// Body-gesteuerter Endpunkt für komplexe Abfragen
	rg.POST("/query", func(c *gin.Context) {
		type IdeaQuery struct {
			AnalysisStatus string `json:"analysis_status"`
			ProjectStatus  string `json:"project_status"`
			UserID         string `json:"user_id"`
			MinScore       *int   `json:"min_score"`
			Limit          int    `json:"limit"`
		}

		var req IdeaQuery
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		query := db.Model(&models.Idea{})
		if req.AnalysisStatus != "" {
			query = query.Where("analysis_status = ?", req.AnalysisStatus)
		}
		if req.ProjectStatus != "" {
			query = query.Where("project_status = ?", req.ProjectStatus)
		}
		if req.UserID != "" {
			query = query.Where("user_id = ?", req.UserID)
		}
		if req.MinScore != nil {
			query = query.Where("score >= ?", *req.MinScore)
		}
		if req.Limit > 0 {
			query = query.Limit(req.Limit)
		}

		var ideas []models.Idea
		if err := query.Order("created_at desc").Find(&ideas).Error; err != nil {
			log.Error("Database query for ideas failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, ideas)
	})
}

// setupAnalysisRoutes konfiguriert den synchronen Analyse-Trigger.
func setupAnalysisRoutes(router *gin.Engine, svc *services.AnalyzeService, log *zap.Logger) {
	router.POST("/analyze", func(c *gin.Context) {
		var req struct {
			IdeaID uint `json:"idea_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "idea_id is required"})
			return
		}

		if err := svc.Run(c.Request.Context(), req.IdeaID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "idea_id": req.IdeaID})
	})
}

// setupInsightRoutes konfiguriert die Digest-Endpunkte.
func setupInsightRoutes(router *gin.Engine, db *gorm.DB, svc *services.DigestService, log *zap.Logger) {
	rg := router.Group("/insights")

	rg.GET("/latest", func(c *gin.Context) {
		var insight models.DailyInsight
		if err := db.Order("created_at desc").First(&insight).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no insights yet"})
				return
			}
			log.Error("DB error fetching latest insight", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, insight)
	})

	rg.GET("/", func(c *gin.Context) {
		var insights []models.DailyInsight
		if err := db.Order("created_at desc").Limit(30).Find(&insights).Error; err != nil {
			log.Error("DB error listing insights", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, insights)
	})

	// Manueller Trigger, asynchron wie der Cron-Job.
	rg.POST("/generate", func(c *gin.Context) {
		go func() {
			if _, err := svc.GenerateDaily(context.Background()); err != nil {
				log.Error("Async digest generation failed", zap.Error(err))
			}
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": "Digest generation triggered."})
	})
}
