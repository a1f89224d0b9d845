package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/autopost/configs"
	"github.com/maheshrc27/autopost/internal/api/handlers"
	"github.com/maheshrc27/autopost/internal/api/middleware"
	job "github.com/maheshrc27/autopost/internal/jobs"
	"github.com/maheshrc27/autopost/internal/queue"
	"github.com/maheshrc27/autopost/internal/repository"
	"github.com/maheshrc27/autopost/internal/service"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    25 * 1024 * 1024, // 25 MB, image uploads only
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	linkedinService := service.NewLinkedinService(*cfg)
	facebookService := service.NewFacebookService(*cfg)
	instagramService := service.NewInstagramService(*cfg)

	settingsProvider := service.NewSettingsProvider(settingsRepo)
	authService := service.NewAuthService(*cfg, userRepo)
	oauthService := service.NewOAuthService(*cfg, socialAccountRepo, linkedinService, facebookService, instagramService)
	publishService := service.NewPublishService(*cfg, socialAccountRepo, postRepo, linkedinService, facebookService, instagramService)
	generateService := service.NewGenerateService(*cfg, settingsProvider, postRepo)
	mediaService := service.NewMediaService(*cfg)
	adminService := service.NewAdminService(userRepo, postRepo, socialAccountRepo, auditLogRepo, settingsProvider)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, userRepo)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := handlers.NewAuthHandler(authService)
	app.Post("/auth/register", auth.Register)
	app.Post("/auth/login", auth.Login)

	oauth := handlers.NewOAuthHandler(*cfg, oauthService)
	// Provider callbacks carry the user in the state value, not a session.
	app.Get("/oauth/:platform/callback", oauth.Callback)

	api := app.Group("/api")
	api.Use(authMiddleware.RequireAuth())

	api.Get("/auth/verify", auth.Me)
	api.Get("/user/info", auth.Me)

	api.Get("/oauth/connected-accounts", oauth.ListConnected)
	api.Get("/oauth/:platform/auth-url", oauth.Connect)
	api.Delete("/oauth/disconnect/:platform", oauth.Disconnect)

	post := handlers.NewPostHandler(generateService, postRepo)
	api.Post("/posts/generate", post.Generate)
	api.Get("/posts/history", post.List)
	api.Get("/posts/:id", post.Get)
	api.Delete("/posts/:id", post.Delete)

	publish := handlers.NewPublishHandler(publishService, client)
	api.Post("/publish/both", publish.PublishBatch)
	api.Post("/publish/schedule", publish.Schedule)
	api.Post("/publish/:platform", publish.PublishOne)

	media := handlers.NewMediaHandler(mediaService)
	api.Post("/media/upload", media.Upload)

	admin := handlers.NewAdminHandler(adminService)
	adminRoutes := api.Group("/admin", authMiddleware.RequireAdmin())
	adminRoutes.Get("/stats", admin.Stats)
	adminRoutes.Get("/users", admin.ListUsers)
	adminRoutes.Post("/users", admin.CreateUser)
	adminRoutes.Get("/users/:id", admin.GetUser)
	adminRoutes.Put("/users/:id", admin.UpdateUser)
	adminRoutes.Put("/users/:id/role", admin.UpdateRole)
	adminRoutes.Put("/users/:id/password", admin.ResetPassword)
	adminRoutes.Put("/users/:id/status", admin.UpdateStatus)
	adminRoutes.Delete("/users/:id", admin.DeleteUser)
	adminRoutes.Get("/settings", admin.ListSettings)
	adminRoutes.Put("/settings/:key", admin.UpdateSetting)
	adminRoutes.Post("/settings/reload", admin.ReloadSettings)
	adminRoutes.Get("/audit-logs", admin.ListAuditLogs)

	// cron jobs
	tokenExpiryJob := job.NewTokenExpiryJob(socialAccountRepo, auditLogRepo)

	// queue
	queueW := queue.NewQueue(publishService)

	c := cron.New()
	c.AddFunc("@every 06h00m00s", tokenExpiryJob.SweepExpiring)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
