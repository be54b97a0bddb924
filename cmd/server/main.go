package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/config"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/constants"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/database"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/handlers"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/identity"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/middleware"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/onboarding"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/repository"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Identity provider (external IdP, bearer token verification only)
	provider := identity.NewJWTProvider(cfg.JWTSecret)

	// Repositories
	db := database.GetDB()
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	auditService := services.NewAuditService(auditRepo)
	onboardingService := services.NewOnboardingService(orgRepo, userRepo, membershipRepo, auditService)
	invitationService := services.NewInvitationService(invitationRepo, membershipRepo, userRepo, auditService)
	userService := services.NewUserService(userRepo, membershipRepo)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}
	todoService := services.NewTodoService(todoRepo, membershipRepo, aiService)

	// Onboarding status poller
	poller := onboarding.New(onboardingService, onboarding.Config{
		MaxRetries: cfg.OnboardingMaxRetries,
	})

	// Initialize handlers
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService, provider, poller)
	invitationHandler := handlers.NewInvitationHandler(invitationService)
	orgHandler := handlers.NewOrganizationHandler(orgRepo, membershipRepo, auditService)
	todoHandler := handlers.NewTodoHandler(todoService)
	userHandler := handlers.NewUserHandler(userService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Multi-tenant Todo API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Onboarding: status is public (unauthenticated resolves to ready)
		api.GET("/onboarding/status", onboardingHandler.Status)
		api.POST("/onboarding", middleware.RequireAuth(provider), onboardingHandler.Complete)

		// Current user
		me := api.Group("/me")
		me.Use(middleware.RequireAuth(provider))
		{
			me.GET("", userHandler.Me)
			me.PATCH("/profile", userHandler.UpdateProfile)
		}

		// Invitations: the service layer enforces org roles, so neither
		// route needs the organization middleware
		api.POST("/invitations", middleware.RequireAuth(provider), invitationHandler.Invite)
		api.POST("/invitations/accept", middleware.RequireAuth(provider), invitationHandler.Accept)

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(middleware.RequireAuth(provider))
		{
			orgs.GET("", orgHandler.List)
			orgs.GET("/:id", middleware.RequireOrganizationAccess(), orgHandler.Get)
			orgs.PATCH("/:id", middleware.RequireOrganizationAccess(), middleware.RequireOrganizationRole(models.RoleOrgOwner), orgHandler.Update)
			orgs.GET("/:id/invitations", middleware.RequireOrganizationAccess(), middleware.RequireOrganizationRole(models.RoleOrgOwner, models.RoleOrgAdmin), invitationHandler.ListForOrganization)
			orgs.GET("/:id/audit", middleware.RequireOrganizationAccess(), middleware.RequireOrganizationRole(models.RoleOrgOwner, models.RoleOrgAdmin), orgHandler.AuditLog)
		}

		// Todo routes (protected)
		todos := api.Group("/todos")
		todos.Use(middleware.RequireAuth(provider))
		{
			todos.GET("", todoHandler.List)
			todos.POST("", todoHandler.Create)
			todos.POST("/suggest", todoHandler.Suggest)
			todos.GET("/:id", todoHandler.Get)
			todos.PATCH("/:id", todoHandler.Update)
			todos.DELETE("/:id", todoHandler.Delete)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
