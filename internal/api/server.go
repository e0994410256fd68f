// Package api serves the estimator over HTTP with echo.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/combstruct/combstruct/internal/estimator"
	"github.com/combstruct/combstruct/internal/inquiry"
	"github.com/combstruct/combstruct/internal/locale"
	"github.com/combstruct/combstruct/internal/logging"
)

// echo v4 has no constant for this header.
const headerAcceptLanguage = "Accept-Language"

// Options configures the HTTP server.
type Options struct {
	AllowedOrigins    []string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Server is the HTTP front end.
type Server struct {
	echo    *echo.Echo
	svc     *estimator.Service
	intake  *inquiry.Intake
	locales *locale.Registry
	opts    Options
	log     zerolog.Logger
}

// New wires routes and middleware. A nil intake gets one backed by svc.
func New(opts Options, svc *estimator.Service, intake *inquiry.Intake, logger zerolog.Logger) *Server {
	if intake == nil {
		intake = inquiry.NewIntake(svc)
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.ReadHeaderTimeout <= 0 {
		opts.ReadHeaderTimeout = 5 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		echo:    echo.New(),
		svc:     svc,
		intake:  intake,
		locales: svc.Locales(),
		opts:    opts,
		log:     logging.ComponentLogger(logger, "api"),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newValidator()
	e.HTTPErrorHandler = httpErrorHandler
	e.Server.ReadHeaderTimeout = opts.ReadHeaderTimeout

	e.Use(requestID())
	e.Use(requestLogger(s.log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  opts.AllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, headerAcceptLanguage, echo.HeaderXRequestID},
		ExposeHeaders: []string{echo.HeaderXRequestID},
	}))

	e.GET("/healthz", s.getHealth)

	v1 := e.Group("/api/v1")
	v1.GET("/estimate", s.getEstimate)
	v1.POST("/estimate", s.postEstimate)
	v1.GET("/options", s.getOptions)
	v1.GET("/locales", s.getLocales)
	v1.POST("/inquiries", s.postInquiry)

	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Ctx(ctx).Str("addr", addr).Msg("listening")
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()

	s.log.Info().Ctx(ctx).Msg("shutting down")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
