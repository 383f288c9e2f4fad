package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"celestia/internal/alert"
	"celestia/internal/clients"
	"celestia/internal/config"
	"celestia/internal/handlers"
	"celestia/internal/middleware"
	"celestia/internal/repository"
	"celestia/internal/service"
	"celestia/internal/worker"
	"celestia/pkg/database"
	"celestia/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

func main() {
	// Загрузка .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("=== Celestia Backend Starting ===")

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключение к PostgreSQL
	db, err := database.Connect(database.Config(cfg.DB))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// Подключение к Redis
	redisClient, err := redis.Connect(redis.Config(cfg.Redis))
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Автомиграция моделей
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Инициализация репозиториев
	kpRepo := repository.NewKpRepository(db)
	issRepo := repository.NewISSRepository(db)
	lunarRepo := repository.NewLunarRepository(db)
	asteroidRepo := repository.NewAsteroidRepository(db)
	astronautRepo := repository.NewAstronautRepository(db)
	weatherRepo := repository.NewWeatherRepository(db)
	observationRepo := repository.NewObservationRepository(db)
	prefsRepo := repository.NewPreferenceRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	// Клиенты внешних API
	kpClient := clients.NewKpClient(cfg.Sources.KpURL)
	issClient := clients.NewISSClient(cfg.Sources.ISSURL)
	moonClient := clients.NewMoonClient(cfg.Sources.MoonURL, cfg.Sources.MoonKey)
	neoClient := clients.NewNeoClient(cfg.Sources.NeoURL, cfg.Sources.NASAAPIKey)
	astrosClient := clients.NewAstrosClient(cfg.Sources.AstrosURL)
	weatherClient := clients.NewWeatherClient(cfg.Sources.WeatherURL, cfg.Sources.WeatherKey)

	// Инициализация сервисов
	kpService := service.NewKpService(kpRepo, cacheRepo, kpClient)
	issService := service.NewISSService(issRepo, cacheRepo, issClient)
	lunarService := service.NewLunarService(lunarRepo, prefsRepo, cacheRepo, moonClient)
	asteroidService := service.NewAsteroidService(asteroidRepo, cacheRepo, neoClient, service.DefaultHazardRule)
	astronautService := service.NewAstronautService(astronautRepo, cacheRepo, astrosClient)
	weatherService := service.NewWeatherService(weatherRepo, prefsRepo, cacheRepo, weatherClient)
	observationService := service.NewObservationService(observationRepo, kpService, issService, weatherService, cfg.Journal.ExportDir)

	// Alert Evaluator
	evaluator := alert.NewEvaluator(
		kpService,
		issService,
		prefsRepo,
		alert.NewLogNotifier(),
		alert.NewHomeLocationProvider(prefsRepo),
		clockwork.NewRealClock(),
	)

	// Инициализация воркеров (фоновые задачи)
	scheduler := worker.NewScheduler()

	if cfg.Workers.SpaceEnabled {
		scheduler.AddWorker(worker.NewSpaceWorker(kpService, issService, cfg.Workers.SpaceInterval))
		log.Printf("Space Worker enabled (interval: %v)", cfg.Workers.SpaceInterval)
	}

	if cfg.Workers.FeedEnabled {
		scheduler.AddWorker(worker.NewFeedWorker(lunarService, asteroidService, astronautService, weatherService, cfg.Workers.FeedInterval))
		log.Printf("Feed Worker enabled (interval: %v)", cfg.Workers.FeedInterval)
	}

	if cfg.Workers.AlertEnabled {
		scheduler.AddWorker(worker.NewAlertWorker(evaluator, cfg.Workers.AlertInterval))
		log.Printf("Alert Worker enabled (interval: %v)", cfg.Workers.AlertInterval)
	}

	// Запускаем воркеры в фоне
	go scheduler.Start()
	defer scheduler.Stop()

	// Инициализация Gin
	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in DEBUG mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS для мобильного клиента
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiting (только для продакшена)
	if !cfg.App.Debug {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(limiter))
		log.Printf("Rate limiting enabled: %d req/sec, burst: %d",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	observationHandler := handlers.NewObservationHandler(observationService)
	settingsHandler := handlers.NewSettingsHandler(prefsRepo)

	// Группа API v1
	api := r.Group("/api/v1")

	// 1. Геомагнитный Kp-индекс
	api.GET("/kp/latest", func(c *gin.Context) {
		ctx := c.Request.Context()
		reading, err := kpService.GetLatest(ctx)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to get Kp reading"})
			return
		}
		c.JSON(200, reading)
	})

	api.GET("/kp/readings", func(c *gin.Context) {
		ctx := c.Request.Context()
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "240"))
		readings, err := kpService.GetReadings(ctx, limit)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to get Kp readings"})
			return
		}
		c.JSON(200, gin.H{"items": readings, "count": len(readings)})
	})

	// 2. Позиция МКС
	api.GET("/iss/position", func(c *gin.Context) {
		ctx := c.Request.Context()
		position, err := issService.GetPosition(ctx)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to get ISS position"})
			return
		}
		c.JSON(200, position)
	})

	api.GET("/iss/distance", func(c *gin.Context) {
		ctx := c.Request.Context()
		lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
		lon, err2 := strconv.ParseFloat(c.Query("lon"), 64)
		if err1 != nil || err2 != nil {
			c.JSON(400, gin.H{"error": "lat and lon query parameters are required"})
			return
		}
		distance, err := issService.DistanceFromKm(ctx, lat, lon)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to compute ISS distance"})
			return
		}
		c.JSON(200, gin.H{"distance_km": distance})
	})

	// 3. Лунные данные
	api.GET("/moon", func(c *gin.Context) {
		ctx := c.Request.Context()
		snapshot, err := lunarService.GetSnapshot(ctx)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to get lunar snapshot"})
			return
		}
		c.JSON(200, snapshot)
	})

	// 4. Сближения астероидов (окно 7 дней)
	api.GET("/asteroids", func(c *gin.Context) {
		ctx := c.Request.Context()
		hazardousOnly := c.Query("hazardous") == "true"
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
		approaches, err := asteroidService.GetUpcoming(ctx, hazardousOnly, limit)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to get asteroid approaches"})
			return
		}
		c.JSON(200, gin.H{"items": approaches, "count": len(approaches)})
	})

	api.GET("/asteroids/:id", func(c *gin.Context) {
		ctx := c.Request.Context()
		approach, err := asteroidRepo.GetByID(ctx, c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "asteroid approach not found"})
			return
		}
		c.JSON(200, approach)
	})

	// 5. Люди на орбите
	api.GET("/astronauts", func(c *gin.Context) {
		ctx := c.Request.Context()
		roster, err := astronautService.GetRoster(ctx)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to get astronaut roster"})
			return
		}
		c.JSON(200, gin.H{"items": roster, "count": len(roster)})
	})

	// 6. Погода для домашней локации
	api.GET("/weather", func(c *gin.Context) {
		ctx := c.Request.Context()
		snapshot, err := weatherService.GetSnapshot(ctx)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to get weather snapshot"})
			return
		}
		c.JSON(200, snapshot)
	})

	// 7. Журнал наблюдений
	api.POST("/observations", observationHandler.Create)
	api.GET("/observations", observationHandler.List)
	api.GET("/observations/export", observationHandler.Export)
	api.GET("/observations/:id", observationHandler.Get)
	api.DELETE("/observations/:id", observationHandler.Delete)

	// 8. Настройки алертов
	api.GET("/settings/alerts", settingsHandler.GetAlertSettings)
	api.PUT("/settings/alerts", settingsHandler.UpdateAlertSettings)

	// 9. Ручной запуск проверки алертов
	api.POST("/alerts/run", func(c *gin.Context) {
		report := evaluator.RunOnce(c.Request.Context())
		c.JSON(200, report)
	})

	// 10. Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"workers":   scheduler.IsRunning(),
		})
	})

	// 11. Системная статистика
	api.GET("/system/stats", func(c *gin.Context) {
		ctx := c.Request.Context()

		redisStats, _ := redis.GetStats(redisClient)
		kpCount, _ := kpRepo.Count(ctx)
		asteroidCount, _ := asteroidRepo.Count(ctx)
		astronautCount, _ := astronautRepo.Count(ctx)
		observationCount, _ := observationRepo.Count(ctx)

		c.JSON(200, gin.H{
			"database": gin.H{
				"kp_readings":         kpCount,
				"asteroid_approaches": asteroidCount,
				"astronauts":          astronautCount,
				"observations":        observationCount,
			},
			"redis": redisStats,
			"workers": gin.H{
				"space_enabled": cfg.Workers.SpaceEnabled,
				"feed_enabled":  cfg.Workers.FeedEnabled,
				"alert_enabled": cfg.Workers.AlertEnabled,
			},
		})
	})

	// 12. Форс-обновление источников (для дебага)
	if cfg.App.Debug {
		api.POST("/refresh/kp", func(c *gin.Context) {
			if err := kpService.RefreshReadings(c.Request.Context()); err != nil {
				c.JSON(500, gin.H{"error": err.Error()})
				return
			}
			c.JSON(200, gin.H{"message": "Kp readings refreshed"})
		})

		api.POST("/refresh/iss", func(c *gin.Context) {
			if err := issService.RefreshPosition(c.Request.Context()); err != nil {
				c.JSON(500, gin.H{"error": err.Error()})
				return
			}
			c.JSON(200, gin.H{"message": "ISS position refreshed"})
		})

		api.POST("/refresh/feeds", func(c *gin.Context) {
			ctx := c.Request.Context()
			if err := lunarService.RefreshSnapshot(ctx); err != nil {
				log.Printf("Lunar refresh error: %v", err)
			}
			if err := asteroidService.RefreshApproaches(ctx); err != nil {
				log.Printf("Asteroid refresh error: %v", err)
			}
			if err := astronautService.RefreshRoster(ctx); err != nil {
				log.Printf("Astronaut refresh error: %v", err)
			}
			if err := weatherService.RefreshSnapshot(ctx); err != nil {
				log.Printf("Weather refresh error: %v", err)
			}
			c.JSON(200, gin.H{"message": "Feeds refreshed"})
		})
	}

	// Главный дашборд со всеми данными
	api.GET("/dashboard", func(c *gin.Context) {
		ctx := c.Request.Context()

		type DashboardData struct {
			Kp         interface{} `json:"kp"`
			ISS        interface{} `json:"iss"`
			Moon       interface{} `json:"moon"`
			Asteroids  interface{} `json:"asteroids"`
			Astronauts interface{} `json:"astronauts"`
			Weather    interface{} `json:"weather"`
		}

		data := DashboardData{}

		if kp, err := kpService.GetLatest(ctx); err == nil {
			data.Kp = kp
		}
		if iss, err := issService.GetPosition(ctx); err == nil {
			data.ISS = iss
		}
		if moon, err := lunarService.GetSnapshot(ctx); err == nil {
			data.Moon = moon
		}
		if asteroids, err := asteroidService.GetUpcoming(ctx, false, 20); err == nil {
			data.Asteroids = asteroids
		}
		if astronauts, err := astronautService.GetRoster(ctx); err == nil {
			data.Astronauts = astronauts
		}
		if weather, err := weatherService.GetSnapshot(ctx); err == nil {
			data.Weather = weather
		}

		c.JSON(200, gin.H{
			"success":   true,
			"data":      data,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.App.Port)
		log.Printf("API available at http://localhost:%s/api/v1", cfg.App.Port)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited properly")
}
