package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Jazlogic/Share-Musician-sub000/db"
	"github.com/Jazlogic/Share-Musician-sub000/db/migrations"
	"github.com/Jazlogic/Share-Musician-sub000/internal/auth"
	"github.com/Jazlogic/Share-Musician-sub000/internal/config"
	"github.com/Jazlogic/Share-Musician-sub000/internal/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logger := newLogger(cfg.Environment)
	defer logger.Sync()

	dbConn, err := sqlx.Connect("postgres", cfg.PostgresConn)
	if err != nil {
		logger.Fatal("cannot connect to DB", zap.Error(err))
	}
	defer dbConn.Close()

	if err := migrations.Run(context.Background(), cfg.PostgresConn, cfg.MigrationsPath); err != nil {
		logger.Fatal("cannot apply migrations", zap.Error(err))
	}

	store := db.NewStorage(dbConn)
	h := handlers.NewHandler(store, logger)
	authenticated := auth.Middleware(cfg.JWTSecret)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/ping", h.PingHandler)

	// заявки
	r.Route("/requests", func(r chi.Router) {
		r.Get("/event-types", h.GetEventTypesHandler)
		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Post("/", h.CreateRequestHandler)
			r.Get("/created", h.GetCreatedRequestsHandler)
			r.Get("/{id}", h.GetRequestHandler)
		})
	})

	// предложения
	r.Route("/offer", func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/", h.CreateOfferHandler)
		r.Get("/{id}", h.GetOfferHandler)
		r.Post("/{id}/accept", h.AcceptOfferHandler)
		r.Post("/{id}/reject", h.RejectOfferHandler)
		r.Get("/request/{requestId}", h.GetOffersForRequestHandler)
	})

	// уведомления
	r.Route("/notifications", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", h.GetNotificationsHandler)
		r.Post("/{id}/read", h.MarkNotificationReadHandler)
	})

	logger.Info("starting server", zap.String("address", cfg.ServerAddress))
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Cannot create logger: %v", err)
	}
	return logger
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
			)
		})
	}
}
