package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/movie-catalog/internal/catalog"
	"github.com/example/movie-catalog/internal/engagement"
	"github.com/example/movie-catalog/internal/handlers"
	"github.com/example/movie-catalog/internal/platform/analytics"
	"github.com/example/movie-catalog/internal/platform/auth"
	"github.com/example/movie-catalog/internal/platform/config"
	"github.com/example/movie-catalog/internal/platform/httpserver"
	"github.com/example/movie-catalog/internal/platform/logging"
	"github.com/example/movie-catalog/internal/platform/mongodb"
	"github.com/example/movie-catalog/internal/platform/natsconn"
	"github.com/example/movie-catalog/internal/platform/run"
	"github.com/example/movie-catalog/internal/trending"
	"github.com/example/movie-catalog/internal/users"
	"github.com/example/movie-catalog/internal/worker"
)

type stores struct {
	reviews  engagement.Store
	movies   catalog.Store
	users    users.Store
	trending trending.Store
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	st, closeDB := initStores(cfg, log)
	if closeDB != nil {
		defer closeDB()
	}

	// NATS is optional: the publisher is a safe no-op without it, and the
	// recompute worker simply does not start.
	events, nc := initAnalytics(log)
	if nc != nil {
		defer nc.Close()
	}

	svc := engagement.NewService(st.reviews, st.movies, st.users, st.trending, events, log)

	verifier := auth.JWTVerifier{Secret: []byte(cfg.JWTSecret)}
	limiter := httpserver.NewRateLimiter(cfg.RateLimit.Rate, cfg.RateLimit.Burst)

	r := chi.NewRouter()
	httpserver.SetupRouter(r)

	// Public reads
	r.Get("/v1/movies/{movie_id}", handlers.GetMovie(st.movies))
	r.Get("/v1/movies/{movie_id}/reviews", handlers.GetMovieReviews(svc))
	r.Get("/v1/movies/{movie_id}/reviews/top", handlers.GetTopRatedReviews(svc))
	r.Get("/v1/movies/{movie_id}/reviews/discussed", handlers.GetMostDiscussedReviews(svc))
	r.Get("/v1/reviews/{review_id}/comments", handlers.GetComments(svc))
	r.Get("/v1/discover/trending", handlers.TrendingMovies(svc))
	r.Get("/v1/discover/top-rated", handlers.TopRatedMovies(svc))
	r.Get("/v1/users/{user_id}", handlers.GetUser(st.users))

	// Authenticated writes (rate limited)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Use(limiter.Middleware)
		r.Get("/v1/movies/{movie_id}/reviews/me", handlers.GetOwnReview(svc))
		r.Post("/v1/movies/{movie_id}/reviews", handlers.SubmitRating(svc))
		r.Delete("/v1/movies/{movie_id}/reviews", handlers.DeleteRating(svc))
		r.Post("/v1/reviews/{review_id}/like", handlers.LikeReview(svc))
		r.Delete("/v1/reviews/{review_id}/like", handlers.UnlikeReview(svc))
		r.Post("/v1/reviews/{review_id}/comments", handlers.AddComment(svc))
		r.Delete("/v1/reviews/{review_id}/comments/{comment_id}", handlers.RemoveComment(svc))
	})

	// Admin: catalog writes
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Use(auth.RequireAdmin)
		r.Post("/v1/movies", handlers.CreateMovie(st.movies))
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		if nc != nil {
			worker.StartRecomputeConsumer(ctx, nc, svc, log)
		}

		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// initStores selects the persistence backend. Production requires Mongo
// (config.Load already enforces MONGO_URI there); development without a URI
// falls back to in-memory stores.
func initStores(cfg config.AppConfig, log *zap.Logger) (stores, func()) {
	if cfg.Mongo.URI == "" {
		log.Warn("MONGO_URI not set, using in-memory stores (development only)")
		return stores{
			reviews:  engagement.NewInMemoryStore(),
			movies:   catalog.NewInMemoryStore(),
			users:    users.NewInMemoryStore(),
			trending: trending.NewInMemoryStore(),
		}, nil
	}

	db, closeDB, err := mongodb.Open(context.Background(), cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		if cfg.IsProduction() {
			log.Error("mongo is required in production but unavailable", zap.Error(err))
			_ = log.Sync()
			run.Exit(1)
		}
		log.Warn("mongo unavailable, falling back to in-memory stores", zap.Error(err))
		return stores{
			reviews:  engagement.NewInMemoryStore(),
			movies:   catalog.NewInMemoryStore(),
			users:    users.NewInMemoryStore(),
			trending: trending.NewInMemoryStore(),
		}, nil
	}

	log.Info("stores: mongo", zap.String("database", cfg.Mongo.Database))
	return stores{
		reviews:  engagement.NewMongoStore(db, log),
		movies:   catalog.NewMongoStore(db),
		users:    users.NewMongoStore(db),
		trending: trending.NewMongoStore(db),
	}, closeDB
}

// initAnalytics connects to NATS and wires the JetStream publisher.
// Unavailable NATS is non-fatal: the publisher degrades to a no-op.
func initAnalytics(log *zap.Logger) (*analytics.Publisher, *nats.Conn) {
	nc, err := natsconn.Connect(natsconn.Options{})
	if err != nil {
		log.Warn("nats unavailable, analytics disabled", zap.Error(err))
		return analytics.New(nil, log), nil
	}
	js, err := nc.JetStream()
	if err != nil {
		log.Warn("jetstream unavailable, analytics disabled", zap.Error(err))
		nc.Close()
		return analytics.New(nil, log), nil
	}
	return analytics.New(js, log), nc
}
