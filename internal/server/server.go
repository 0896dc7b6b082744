// Package server owns the HTTP listener for the expense API
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/chucky-1/expenses/internal/handlers"
)

type Server struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

func New(addr string, shutdownTimeout time.Duration, expense *handlers.Expense) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Route("/expense", expense.Routes)

	return &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

// Run blocks until the context is cancelled, then shuts the listener down
func (s *Server) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	go func() {
		logrus.Infof("expense api listening on %s", s.server.Addr)
		serverErrors <- s.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		logrus.Infof("expense api shutdown initiated: %v", ctx.Err())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			logrus.Errorf("graceful shutdown failed: %v", err)
			return s.server.Close()
		}
	}
	return nil
}
