package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"laurent/pkg/config"
	"laurent/pkg/contracts"
	"laurent/pkg/middleware"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

const bookingsPath = "/api/bookings"

type Application struct {
	cfg              *config.Config
	server           *http.Server
	idempotencyStore middleware.IdempotencyStore
	rateLimiter      *middleware.ClientRateLimiter
	handler          http.Handler
	closers          []func() error
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// SetApp mounts every handler on one router and wraps it with the middleware
// stack. uploadsDir, when set, is served under /uploads/.
func (a *Application) SetApp(uploadsDir string, handlers ...contracts.Handler) {
	router := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}
	if uploadsDir != "" {
		router.ServeFiles("/uploads/*filepath", http.Dir(uploadsDir))
	}

	a.setIdempotencyStore()
	a.rateLimiter = middleware.NewClientRateLimiter(a.cfg.RateLimitRequests, a.cfg.RateLimitWindow, a.cfg.Log)

	var appHandler http.Handler = router
	appHandler = middleware.Idempotency(a.idempotencyStore, middleware.IdempotencyHeader)(appHandler)
	appHandler = middleware.RequestTimeout(a.cfg.RequestTimeout)(appHandler)
	appHandler = middleware.RateLimit(a.rateLimiter, isPublicBookingCreate)(appHandler)
	appHandler = middleware.ContentTypeValidation(a.cfg.Log)(appHandler)
	appHandler = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(appHandler)
	appHandler = a.corsHandler(appHandler)
	appHandler = middleware.RequestLogging(a.cfg.Log)(appHandler)
	appHandler = middleware.Recovery(a.cfg.Log)(appHandler)
	a.handler = appHandler

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      a.handler,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured",
		"port", a.cfg.Port,
		"handlers", len(handlers),
		"uploads_dir", uploadsDir,
	)
}

// Handler returns the fully wrapped handler. SetApp must have been called.
func (a *Application) Handler() http.Handler {
	return a.handler
}

// OnShutdown registers fn to run after the server stopped.
func (a *Application) OnShutdown(fn func() error) {
	a.closers = append(a.closers, fn)
}

func (a *Application) setIdempotencyStore() {
	if rdb := a.cfg.Client.Redis; rdb != nil {
		a.idempotencyStore = middleware.NewRedisIdempotencyStore(rdb, a.cfg.IdempotencyTTL, a.cfg.Log)
		a.cfg.Log.Info("Idempotency keys stored in Redis")
		return
	}
	a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
	a.cfg.Log.Info("Idempotency keys stored in memory")
}

func (a *Application) corsHandler(next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: a.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.IdempotencyHeader, middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:         300,
	}).Handler(next)
}

func isPublicBookingCreate(r *http.Request) bool {
	return r.Method == http.MethodPost && r.URL.Path == bookingsPath
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Stopping background workers...")
	a.idempotencyStore.Stop()
	a.rateLimiter.Stop()
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.cfg.Log.Error("Shutdown hook failed", "error", err)
		}
	}
	a.cfg.Log.Info("Background workers stopped")

	a.cfg.GracefulShutdown()
	a.cfg.Log.Info("Server stopped gracefully")
}
