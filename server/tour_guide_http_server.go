package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"tour-guide-server/logger"
)

type TourGuideHttpServer struct {
	router          *Router
	muxRouter       *mux.Router
	address         string
	shutdownTimeout time.Duration
}

func NewTourGuideHttpServer(router *Router, muxRouter *mux.Router, address string, shutdownTimeout time.Duration) *TourGuideHttpServer {
	return &TourGuideHttpServer{
		router:          router,
		muxRouter:       muxRouter,
		address:         address,
		shutdownTimeout: shutdownTimeout,
	}
}

// Start registers the routes and serves until ctx is done, then shuts down
// gracefully within the shutdown timeout.
func (s *TourGuideHttpServer) Start(ctx context.Context) error {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.muxRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine so it doesn't block
	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("Starting server", zap.String("address", s.address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", s.address, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.L().Info("Shutting down the server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.L().Info("Server exiting")
	return nil
}
