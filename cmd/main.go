package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Arrties/backend/internal/auth"
	"github.com/Arrties/backend/internal/config"
	"github.com/Arrties/backend/internal/database"
	"github.com/Arrties/backend/internal/handlers"
	"github.com/Arrties/backend/internal/jobs"
	"github.com/Arrties/backend/internal/mail"
	"github.com/Arrties/backend/internal/redis"
	"github.com/Arrties/backend/internal/repository"
	"github.com/Arrties/backend/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Connect to redis (refresh tokens, logout blacklist, e-mail codes)
	tokenStore, err := redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer tokenStore.Close()

	// Initialize repository and mailer
	repo := repository.NewRepository(database.GetDB())
	mailer := mail.NewMailer(cfg.SMTP)

	// Initialize services
	notificationService := services.NewNotificationService(database.GetDB())
	auctionService := services.NewAuctionService(repo, notificationService)
	memberService := services.NewMemberService(database.GetDB(), tokenStore, mailer)
	artWorkService := services.NewArtWorkService(database.GetDB())
	biddingService := services.NewBiddingService(database.GetDB(), notificationService)

	// Initialize handlers
	auctionHandler := handlers.NewAuctionHandler(auctionService)
	memberHandler := handlers.NewMemberHandler(memberService)
	artWorkHandler := handlers.NewArtWorkHandler(artWorkService)
	biddingHandler := handlers.NewBiddingHandler(biddingService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Start the auction scheduler job
	scheduler := jobs.NewAuctionScheduler(auctionService, time.Minute)
	go scheduler.Start()
	defer scheduler.Stop()
	log.Println("Auction scheduler started")

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Member routes (public)
	memberRoutes := router.Group("/members")
	{
		memberRoutes.POST("/join", memberHandler.Join)
		memberRoutes.POST("/join/artist", memberHandler.JoinArtist)
		memberRoutes.POST("/login", memberHandler.Login)
		memberRoutes.POST("/token", memberHandler.Refresh)
		memberRoutes.POST("/find-id", memberHandler.FindLoginID)
		memberRoutes.POST("/password/reset", memberHandler.ResetPassword)
		memberRoutes.GET("/check/login-id", memberHandler.CheckLoginID)
		memberRoutes.GET("/check/email", memberHandler.CheckEmail)
		memberRoutes.POST("/email/verify", memberHandler.SendEmailVerification)
		memberRoutes.POST("/email/confirm", memberHandler.ConfirmEmailVerification)
	}

	// Public auction and art-work routes
	router.GET("/auctions", auctionHandler.ListAuctions)
	router.GET("/auctions/:id/art-works", artWorkHandler.ListByAuction)
	router.GET("/art-works/:id", artWorkHandler.GetArtWork)
	router.GET("/art-works/:id/biddings", biddingHandler.ListBids)

	// API routes (protected)
	api := router.Group("")
	api.Use(auth.AuthMiddleware(tokenStore))
	{
		api.POST("/members/logout", memberHandler.Logout)
		api.GET("/members/me", memberHandler.GetMe)
		api.PATCH("/members/me", memberHandler.UpdateProfile)
		api.PATCH("/members/password", memberHandler.ChangePassword)

		api.POST("/art-works/:id/biddings", biddingHandler.PlaceBid)
		api.GET("/notifications", notificationHandler.ListNotifications)

		// Artist-only routes
		artist := api.Group("")
		artist.Use(auth.ArtistOnly())
		{
			artist.POST("/art-works", artWorkHandler.CreateArtWork)
			artist.POST("/art-works/:id/auction", artWorkHandler.AssignToAuction)
		}

		// Auction lifecycle (operator tooling)
		api.POST("/auctions", auctionHandler.RegisterAuction)
		api.POST("/auctions/start", auctionHandler.StartAuction)
		api.POST("/auctions/terminate", auctionHandler.TerminateAuction)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
