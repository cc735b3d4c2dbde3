package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/oggyb/matchmaker/internal/app"
	"github.com/oggyb/matchmaker/internal/auth"
	"github.com/oggyb/matchmaker/internal/config"
	"github.com/oggyb/matchmaker/internal/db"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
	"github.com/oggyb/matchmaker/internal/logger"
	"github.com/oggyb/matchmaker/internal/repository"
)

const healthTimeout = 2 * time.Second

// HTTPServer is the echo based REST API.
type HTTPServer struct {
	Echo   *echo.Echo
	appCtx *app.AppContext
	addr   string
}

// NewHTTPServer assembles middleware, the central error handler, the
// unauthenticated /health and /metrics routes and the authenticated /v1 group.
func NewHTTPServer(cfg *config.Config, appCtx *app.AppContext, registrars ...Registrar) *HTTPServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(appCtx.Logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			l := appCtx.Logger.With(slog.String("request_id", id))
			c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context(), l)))
		},
	}))
	e.Use(requestLogger())
	e.Use(appCtx.Metrics.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSOrigin,
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	s := &HTTPServer{
		Echo:   e,
		appCtx: appCtx,
		addr:   fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port),
	}

	e.GET("/health", s.health)
	e.GET("/metrics", echo.WrapHandler(appCtx.Metrics.Handler()))

	v1 := e.Group("/v1", auth.Middleware(appCtx.Auth, repository.NewUserRepository(appCtx.DB)))
	for _, r := range registrars {
		r.Register(v1)
	}

	return s
}

// Addr is the configured listen address.
func (s *HTTPServer) Addr() string { return s.addr }

// Start blocks until Shutdown. A clean shutdown returns nil.
func (s *HTTPServer) Start() error {
	if err := s.Echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

type healthResponse struct {
	OK    bool   `json:"ok"`
	DB    string `json:"db"`
	Redis string `json:"redis"`
}

func (s *HTTPServer) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{OK: true, DB: "ok", Redis: "ok"}
	if err := db.Ping(ctx, s.appCtx.DB); err != nil {
		logger.FromContext(ctx, s.appCtx.Logger).Warn("health: db unreachable", "err", err)
		resp.OK, resp.DB = false, "unreachable"
	}
	if err := s.appCtx.RedisCache.Ping(ctx); err != nil {
		logger.FromContext(ctx, s.appCtx.Logger).Warn("health: redis unreachable", "err", err)
		resp.OK, resp.Redis = false, "unreachable"
	}

	status := http.StatusOK
	if !resp.OK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, resp)
}

// requestLogger writes one info line per request through the request-scoped logger.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			status := v.Status
			if v.Error != nil {
				status = svcErr.Map(v.Error).Code
			}
			logger.FromContext(c.Request().Context(), nil).Info("request",
				"method", v.Method,
				"path", v.URIPath,
				"status", status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	})
}

// errorHandler renders every error as svcErr.Body with the mapped status.
func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		he := svcErr.Map(err)
		body, ok := he.Message.(svcErr.Body)
		if !ok {
			// echo's own errors: 404 route, 405, bind failures
			body = svcErr.Body{Error: kindForStatus(he.Code), Message: fmt.Sprint(he.Message)}
		}

		if he.Code >= http.StatusInternalServerError {
			logger.FromContext(c.Request().Context(), log).Error("request failed",
				"status", he.Code, "err", err)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(he.Code)
		} else {
			werr = c.JSON(he.Code, body)
		}
		if werr != nil {
			log.Error("failed to write error response", "err", werr)
		}
	}
}

func kindForStatus(code int) svcErr.Kind {
	switch {
	case code == http.StatusUnauthorized:
		return svcErr.KindUnauthorized
	case code == http.StatusForbidden:
		return svcErr.KindForbidden
	case code == http.StatusNotFound:
		return svcErr.KindNotFound
	case code >= 400 && code < 500:
		return svcErr.KindInvalidInput
	default:
		return svcErr.KindInternal
	}
}
