package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"inventindia-system/handlers"
	"inventindia-system/middleware"
	"inventindia-system/models"
	"inventindia-system/services"
	"inventindia-system/utils"
	"inventindia-system/workers"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // 1MB — score payloads are tiny
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	db := openDatabase()

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserProgress{},
		&models.GameScore{},
		&models.CollectibleCard{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}
	if err := utils.EnsureExportDir(); err != nil {
		log.Fatal("failed to ensure export dir:", err)
	}

	rdb := openRedis()

	liveStats := services.NewLiveStatsService(db, rdb)
	userService := services.NewUserService(db, rdb, liveStats)
	progressionService := services.NewProgressionService(db, rdb, liveStats)
	boardService := services.NewLeaderboardService(db, rdb)
	adminService := services.NewAdminService(db, boardService, userService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if rdb != nil {
		if err := boardService.RebuildMirror(ctx); err != nil {
			log.Printf("⚠️  Failed to rebuild ranking mirror: %v", err)
		}
	}

	go workers.PollLiveStats(ctx, liveStats, 30*time.Second)
	adminService.StartExportScheduler()

	handlers.SetupAuthRoutes(app, userService, liveStats)
	handlers.SetupProgressionRoutes(app, progressionService)
	handlers.SetupLeaderboardRoutes(app, boardService)
	handlers.SetupAdminRoutes(app, adminService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Live stats polling running (every 30s)")
	log.Println("✅ Daily export scheduler running")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}

// openDatabase connects to Postgres when DATABASE_URL is set; otherwise it
// falls back to a local SQLite file, which is enough for development.
func openDatabase() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	var (
		db  *gorm.DB
		err error
	)
	if dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		log.Println("⚠️  DATABASE_URL not set, falling back to local SQLite (inventindia.db)")
		db, err = gorm.Open(sqlite.Open("inventindia.db"), &gorm.Config{})
	}
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	return db
}

// openRedis returns nil when REDIS_ADDR is unset; the leaderboard mirror and
// online-user set then stay disabled and everything runs from SQL alone.
func openRedis() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("⚠️  REDIS_ADDR not set, ranking mirror disabled")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("⚠️  Redis unreachable (%v), ranking mirror disabled", err)
		return nil
	}
	return rdb
}
