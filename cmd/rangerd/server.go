package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"
	"golang.org/x/time/rate"

	"github.com/reddit-ranger/ranger/detect/engine"
)

type Server struct {
	engine   *engine.Engine
	echo     *echo.Echo
	httpd    *http.Server
	logger   *slog.Logger
	limiters *lru.LRU[string, *rate.Limiter]
	rps      rate.Limit
	burst    int
}

type Config struct {
	Logger       *slog.Logger
	Bind         string
	RateLimitRPS float64
}

func NewServer(eng *engine.Engine, config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	e := echo.New()

	var (
		httpTimeout        = 1 * time.Minute
		httpMaxHeaderBytes = 1 * (1024 * 1024)
	)

	srv := &Server{
		engine: eng,
		echo:   e,
		logger: logger,
		rps:    rate.Limit(config.RateLimitRPS),
		burst:  3,
	}
	if config.RateLimitRPS > 0 {
		// Idle client buckets fall out after ten minutes so the table
		// stays bounded regardless of how many IPs come and go.
		srv.limiters = lru.NewLRU[string, *rate.Limiter](10_000, nil, 10*time.Minute)
	}
	srv.httpd = &http.Server{
		Handler:        srv,
		Addr:           config.Bind,
		WriteTimeout:   httpTimeout,
		ReadTimeout:    httpTimeout,
		MaxHeaderBytes: httpMaxHeaderBytes,
	}

	e.HideBanner = true
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = srv.errorHandler

	e.GET("/_health", srv.HandleHealthCheck)
	e.GET("/analyze/:username", srv.HandleAnalyze, srv.rateLimitMiddleware)

	return srv
}

func (srv *Server) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	srv.echo.ServeHTTP(rw, req)
}

func (srv *Server) RunAPI() error {
	slog.Info("starting server", "bind", srv.httpd.Addr)
	go func() {
		if err := srv.httpd.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				slog.Error("HTTP server shutting down unexpectedly", "err", err)
			}
		}
	}()

	// Wait for a signal to exit.
	slog.Info("registering OS exit signal handler")
	quit := make(chan struct{})
	exitSignals := make(chan os.Signal, 1)
	signal.Notify(exitSignals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-exitSignals
		slog.Info("received OS exit signal", "signal", sig)

		if err := srv.Shutdown(); err != nil {
			slog.Error("HTTP server shutdown error", "err", err)
		}

		close(quit)
	}()
	<-quit
	slog.Info("graceful shutdown complete")
	return nil
}

func (srv *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}

func (srv *Server) Shutdown() error {
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.httpd.Shutdown(ctx)
}

// limiterFor returns the token bucket for a client IP, creating it on
// first sight. LRU expiry handles cleanup of idle entries.
func (srv *Server) limiterFor(ip string) *rate.Limiter {
	if lim, ok := srv.limiters.Get(ip); ok {
		return lim
	}
	lim := rate.NewLimiter(srv.rps, srv.burst)
	srv.limiters.Add(ip, lim)
	return lim
}

func (srv *Server) rateLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if srv.limiters == nil {
			return next(c)
		}
		lim := srv.limiterFor(c.RealIP())
		if !lim.Allow() {
			requestsRateLimited.Inc()
			c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(1/float64(srv.rps))+1))
			return c.JSON(http.StatusTooManyRequests, GenericError{
				Error:   "RateLimited",
				Message: "too many requests from this client, slow down",
			})
		}
		return next(c)
	}
}
