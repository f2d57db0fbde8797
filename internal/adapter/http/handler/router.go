package handler

import (
	"pix-link-gateway/internal/adapter/http/middleware"
	"pix-link-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	LinkSvc        ports.LinkService
	CheckoutSvc    ports.CheckoutService
	CredentialSvc  ports.CredentialService
	Tracker        ports.InstrumentTracker
	TokenSvc       ports.TokenService
	HealthCheckers []ports.HealthChecker
	PublicURL      string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	checkoutHandler := NewCheckoutHandler(deps.LinkSvc, deps.CheckoutSvc, deps.Tracker)

	// --- Public payer surface ---
	pagar := r.Group("/pagar")
	{
		pagar.GET("/:code", checkoutHandler.Preview)
		pagar.POST("/:code/pix", checkoutHandler.CreateChargeForLink)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Platform-routed charges and the countdown poll are public: payers
	// have no account.
	pix := v1.Group("/pix")
	{
		pix.POST("", checkoutHandler.CreateCharge)
		pix.GET("/:id", checkoutHandler.Status)
	}

	// --- JWT-authenticated routes (vendor tooling) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	linkHandler := NewLinkHandler(deps.LinkSvc, deps.PublicURL)
	credentialHandler := NewCredentialHandler(deps.CredentialSvc)

	links := v1.Group("/links", jwtAuth)
	{
		links.POST("", linkHandler.Create)
		links.GET("", linkHandler.List)
		links.DELETE("/:code", linkHandler.Deactivate)
	}

	credentials := v1.Group("/credentials", jwtAuth)
	{
		credentials.GET("", credentialHandler.Get)
		credentials.PUT("", credentialHandler.Put)
	}

	return r
}
