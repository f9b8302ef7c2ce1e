package server

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/ecoloop/core/docs"
	httpHandlers "github.com/ecoloop/core/internal/adapters/http"
	"github.com/ecoloop/core/internal/application/services"
	"github.com/ecoloop/core/internal/domain/entities"
	"github.com/ecoloop/core/internal/infrastructure/config"
	"github.com/ecoloop/core/internal/infrastructure/logger"
	"github.com/ecoloop/core/internal/infrastructure/metrics"
	"github.com/ecoloop/core/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	store   ports.DocumentStore
	metrics *metrics.Metrics
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance. A nil m disables /metrics.
func New(cfg *config.Config, store ports.DocumentStore, gateway ports.PaymentGateway, m *metrics.Metrics, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}

	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = customErrorHandler(appLogger)

	renderer, err := httpHandlers.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	// Initialize services
	access := services.NewDocumentAccess(store, appLogger.WithComponent("store"))
	recyclingService := services.NewRecyclingService(access, m, appLogger)
	paymentService := services.NewPaymentService(access, gateway, cfg.Payment, m, appLogger.WithComponent("payment"))
	authService := services.NewAuthService(cfg.Admin, cfg.JWT, appLogger)

	server := &Server{
		echo:    e,
		config:  cfg,
		logger:  appLogger,
		store:   store,
		metrics: m,
	}

	server.setupMiddleware()

	if cfg.Metrics.Enabled && m != nil {
		server.setupMetrics()
	}

	server.setupRoutes(
		httpHandlers.NewPageHandler(recyclingService, appLogger),
		httpHandlers.NewRecyclingHandler(recyclingService, appLogger),
		httpHandlers.NewTransactionHandler(paymentService, appLogger),
		httpHandlers.NewAuthHandler(authService, appLogger),
		httpHandlers.NewAdminHandler(store, appLogger),
		authService,
	)

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			reqLogger := s.logger.WithRequestID(values.RequestID)
			if values.Error != nil {
				reqLogger = reqLogger.WithError(values.Error)
			}

			reqLogger.LogHTTPRequest(
				values.Method,
				values.URI,
				values.UserAgent,
				values.RemoteIP,
				values.Status,
				float64(values.Latency.Nanoseconds())/1000000,
			)

			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost},
	}))

	if s.config.Security.RateLimitRequests > 0 {
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      requestRate(s.config.Security),
				Burst:     s.config.Security.RateLimitRequests,
				ExpiresIn: s.config.Security.RateLimitWindow,
			}),
			IdentifierExtractor: func(ctx echo.Context) (string, error) {
				return ctx.RealIP(), nil
			},
			ErrorHandler: func(context echo.Context, err error) error {
				return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
			},
			DenyHandler: func(context echo.Context, identifier string, err error) error {
				s.logger.LogSecurityEvent("rate_limited", identifier, map[string]interface{}{"path": context.Request().URL.Path})
				return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
			},
		}))
	}

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
	}))

	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return uuid.New().String()
		},
	}))

	if s.config.Server.WriteTimeout > 0 {
		s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
			Timeout: s.config.Server.WriteTimeout,
		}))
	}
}

// requestRate spreads RateLimitRequests over RateLimitWindow
func requestRate(cfg config.SecurityConfig) rate.Limit {
	if cfg.RateLimitWindow <= 0 {
		return rate.Limit(cfg.RateLimitRequests)
	}
	return rate.Limit(float64(cfg.RateLimitRequests) / cfg.RateLimitWindow.Seconds())
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(
	pageHandler *httpHandlers.PageHandler,
	recyclingHandler *httpHandlers.RecyclingHandler,
	transactionHandler *httpHandlers.TransactionHandler,
	authHandler *httpHandlers.AuthHandler,
	adminHandler *httpHandlers.AdminHandler,
	authService ports.AuthService,
) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Pages
	s.echo.GET("/static/*", httpHandlers.StaticHandler())
	s.echo.GET("/", pageHandler.Index)
	s.echo.GET("/recycle", pageHandler.Recycle)
	s.echo.GET("/report/:company", pageHandler.Report)
	s.echo.GET("/transaction", pageHandler.Transaction)

	// Form actions
	s.echo.POST("/api/recycle", recyclingHandler.Submit)
	s.echo.POST("/api/transaction", transactionHandler.Submit)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")
	v1.GET("/reports/:company", recyclingHandler.GetReport)
	v1.POST("/plastics", recyclingHandler.CreatePlastic)
	v1.POST("/transactions", transactionHandler.CreateTransaction)
	v1.POST("/auth/login", authHandler.Login)

	// Operator routes (authenticated)
	admin := v1.Group("/admin", s.authMiddleware(authService), s.requireRole("admin"))
	admin.GET("/document", adminHandler.GetDocument)
	admin.GET("/transactions", transactionHandler.ListTransactions)
}

// setupMetrics wires the HTTP collectors and the /metrics endpoint
func (s *Server) setupMetrics() {
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else if err != nil {
				status = http.StatusInternalServerError
			}

			s.metrics.RequestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(status),
			).Inc()

			s.metrics.RequestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(time.Since(start).Seconds())

			return err
		}
	})

	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	// A missing document is a fresh install, not an outage.
	if _, err := s.store.Load(c.Request().Context()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "not_ready",
			"reason":  "store_not_ready",
			"backend": s.store.Name(),
		})
	}

	resp := map[string]interface{}{
		"status":  "ready",
		"backend": s.store.Name(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	}

	if hr, ok := ports.HealthOf(s.store); ok {
		resp["database"] = hr.GetConnectionInfo()
		if err := hr.HealthCheck(); err != nil {
			s.logger.WithError(err).Warnw("Database not ready", "backend", s.store.Name())
			resp["status"] = "not_ready"
			resp["reason"] = "database_not_ready"
			delete(resp, "time")
			return c.JSON(http.StatusServiceUnavailable, resp)
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// ServeHTTP lets the server be driven without a listener
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address, "store", s.store.Name())

	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	s.echo.Server.IdleTimeout = s.config.Server.IdleTimeout

	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// paymentMessage returns the provider's wording of a failed charge
func paymentMessage(err error) string {
	var pe *entities.PaymentError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return err.Error()
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, entities.ErrPaymentFailed) {
			logger.Warnw("Payment failed", "error", err, "uri", c.Request().RequestURI, "ip", c.RealIP())
			if sendErr := c.JSON(http.StatusInternalServerError, httpHandlers.PaymentErrorResponse{Success: false, Error: paymentMessage(err)}); sendErr != nil {
				logger.Errorw("Failed to send error response", "error", sendErr)
			}
			return
		}

		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = he.Internal
			}
		} else {
			msg = http.StatusText(code)
		}

		if code >= 500 {
			logger.Errorw("HTTP error",
				"error", err,
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", code,
				"ip", c.RealIP(),
			)
		} else if code >= 400 {
			logger.Warnw("HTTP client error",
				"error", err,
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", code,
				"ip", c.RealIP(),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			response := map[string]interface{}{
				"error": msg,
				"code":  code,
			}

			if reqID := c.Response().Header().Get(echo.HeaderXRequestID); reqID != "" {
				response["request_id"] = reqID
			}

			err = c.JSON(code, response)
		}
		if err != nil {
			logger.Errorw("Failed to send error response", "error", err)
		}
	}
}
