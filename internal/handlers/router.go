package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TMS-2025/proposal-service/internal/auth"
	"github.com/TMS-2025/proposal-service/internal/config"
	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/ratelimit"
	"github.com/TMS-2025/proposal-service/internal/services"
	"github.com/TMS-2025/proposal-service/internal/utils"
)

// HandlerManager owns every HTTP handler and wires them onto the router.
type HandlerManager struct {
	authHandler     *AuthHandler
	passwordHandler *PasswordHandler
	proposalHandler *ProposalHandler
	lecturerHandler *LecturerHandler
	studentHandler  *StudentHandler

	authMiddleware *AuthMiddleware
	serviceManager services.ServiceManager
	limiterStore   ratelimit.Store
	cfg            *config.Config
	logger         utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	signer *auth.TokenSigner,
	limiterStore ratelimit.Store,
	cfg *config.Config,
	logger utils.Logger,
) *HandlerManager {
	defaultLimit := cfg.PaginationDefaultLimit
	maxLimit := cfg.PaginationMaxLimit

	return &HandlerManager{
		authHandler: NewAuthHandler(
			serviceManager.Auth(),
			serviceManager.Lecturer(),
			serviceManager.Student(),
			logger,
		),
		passwordHandler: NewPasswordHandler(serviceManager.Password(), logger),
		proposalHandler: NewProposalHandler(serviceManager.Proposal(), defaultLimit, maxLimit, logger),
		lecturerHandler: NewLecturerHandler(serviceManager.Lecturer(), defaultLimit, maxLimit, logger),
		studentHandler:  NewStudentHandler(serviceManager.Student(), defaultLimit, maxLimit, logger),
		authMiddleware:  NewAuthMiddleware(signer),
		serviceManager:  serviceManager,
		limiterStore:    limiterStore,
		cfg:             cfg,
		logger:          logger,
	}
}

// SetupRoutes registers every endpoint. Throttling tiers: a strict failure
// counting limiter on login, a small fixed budget on forgot-password, and a
// broad backstop over the whole /api surface.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	loginLimiter := ratelimit.Middleware(hm.limiterStore, "login", ratelimit.Policy{
		Window:         hm.cfg.RateLimitLogin.Window,
		Max:            hm.cfg.RateLimitLogin.Max,
		SkipSuccessful: true,
		Message:        "Demasiadas tentativas de login. Tente novamente mais tarde.",
	}, hm.logger)

	forgotLimiter := ratelimit.Middleware(hm.limiterStore, "forgot", ratelimit.Policy{
		Window:  hm.cfg.RateLimitForgot.Window,
		Max:     hm.cfg.RateLimitForgot.Max,
		Message: "Demasiados pedidos de recuperação. Tente novamente mais tarde.",
	}, hm.logger)

	apiLimiter := ratelimit.Middleware(hm.limiterStore, "api", ratelimit.Policy{
		Window:  hm.cfg.RateLimitAPI.Window,
		Max:     hm.cfg.RateLimitAPI.Max,
		Message: "Demasiados pedidos. Tente novamente mais tarde.",
	}, hm.logger)

	api := router.Group("/api")
	api.Use(apiLimiter)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register/docente", hm.authHandler.RegisterDocente)
		authRoutes.POST("/register/aluno", hm.authHandler.RegisterAluno)
		authRoutes.POST("/login", loginLimiter, hm.authHandler.Login)
		authRoutes.POST("/forgot-password", forgotLimiter, hm.passwordHandler.Forgot)
		authRoutes.POST("/reset-password", hm.passwordHandler.Reset)
	}

	required := hm.authMiddleware.Required()
	docenteOnly := hm.authMiddleware.RequireKind(models.KindDocente)

	api.GET("/me", required, hm.authHandler.Me)

	propostas := api.Group("/propostas")
	propostas.Use(required)
	{
		propostas.GET("", hm.proposalHandler.List)
		propostas.GET("/export", docenteOnly, hm.proposalHandler.Export)
		propostas.GET("/:id", hm.proposalHandler.Get)
		propostas.POST("", docenteOnly, hm.proposalHandler.Create)
		propostas.PUT("/:id", docenteOnly, hm.proposalHandler.Update)
		propostas.DELETE("/:id", docenteOnly, hm.proposalHandler.Delete)
	}

	docentes := api.Group("/docentes")
	docentes.Use(required)
	{
		docentes.GET("", hm.lecturerHandler.List)
		docentes.GET("/:id", hm.lecturerHandler.Get)
		docentes.PUT("/:id", hm.lecturerHandler.Update)
	}

	alunos := api.Group("/alunos")
	alunos.Use(required)
	{
		alunos.GET("", hm.studentHandler.List)
		alunos.GET("/:id", hm.studentHandler.Get)
		alunos.PUT("/:id", hm.studentHandler.Update)
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
