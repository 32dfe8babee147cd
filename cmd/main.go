package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"ChangMatch/internal/api"
	"ChangMatch/internal/config"
	"ChangMatch/internal/model"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	// 1. Load configuration.
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. Logger.
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.Info("configuration loaded")

	// 3. Open the embedded SQLite store. The handle is constructed here and
	// injected into every handler; nothing holds a global.
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatalf("create database dir: %v", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatalf("open sqlite database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatalf("get sql DB: %v", err)
	}
	defer sqlDB.Close()
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}
	logger.Infof("sqlite database ready at %s", cfg.Database.Path)

	// 4. Schema: create missing tables, then seed the category reference data.
	if err := db.AutoMigrate(
		&model.ServiceCategory{},
		&model.Provider{},
		&model.Customer{},
		&model.Match{},
		&model.MatchHistory{},
		&model.JobProgressTracking{},
		&model.CustomerFeedback{},
	); err != nil {
		logger.Fatalf("auto migrate: %v", err)
	}
	if err := model.SeedCategories(db); err != nil {
		logger.Fatalf("seed categories: %v", err)
	}
	logger.Info("schema checked and reference data seeded")

	// 5. Gin engine with CORS, request logging and pprof.
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(api.RequestLogger(logger))
	r.Use(cors.Default())
	pprof.Register(r)
	logger.Infof("gin mode: %s", cfg.Server.Mode)

	// 6. Handlers and routes.
	categoryHandler := api.NewCategoryHandler(db, logger)
	providerHandler := api.NewProviderHandler(db, logger, cfg.Matching)
	matchHandler := api.NewMatchHandler(db, logger, cfg.Matching)
	customerHandler := api.NewCustomerHandler(db, logger, cfg.Matching, matchHandler.Service())
	progressHandler := api.NewProgressHandler(db, logger, cfg.Matching)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "ok"})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/categories", categoryHandler.ListCategories)
		apiGroup.GET("/categories/:id", categoryHandler.GetCategory)

		apiGroup.POST("/providers", providerHandler.CreateProvider)
		apiGroup.GET("/providers", providerHandler.ListProviders)
		apiGroup.GET("/providers/:id", providerHandler.GetProvider)
		apiGroup.PUT("/providers/:id", providerHandler.UpdateProvider)
		apiGroup.DELETE("/providers/:id", providerHandler.DeleteProvider)

		apiGroup.POST("/customers", customerHandler.CreateCustomer)
		apiGroup.GET("/customers", customerHandler.ListCustomers)
		apiGroup.GET("/customers/:id", customerHandler.GetCustomer)
		apiGroup.PUT("/customers/:id", customerHandler.UpdateCustomer)
		apiGroup.DELETE("/customers/:id", customerHandler.DeleteCustomer)

		apiGroup.POST("/matches", matchHandler.CreateMatch)
		apiGroup.GET("/matches", matchHandler.ListMatches)
		apiGroup.GET("/matches/stats", matchHandler.Stats)
		apiGroup.GET("/matches/:id", matchHandler.GetMatch)
		apiGroup.PUT("/matches/:id/status", matchHandler.UpdateStatus)
		apiGroup.GET("/auto-matches", matchHandler.AutoMatches)

		apiGroup.GET("/job-progress", progressHandler.ListProgress)
		apiGroup.GET("/job-progress/:matchId", progressHandler.GetProgress)
		apiGroup.POST("/job-progress/:matchId/update", progressHandler.UpdateProgress)
		apiGroup.POST("/job-progress/:matchId/customer-feedback", progressHandler.SubmitFeedback)
	}

	// 7. Serve.
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Infof("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
