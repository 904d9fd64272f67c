package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pricescout/internal/ai"
	"pricescout/internal/config"
	matchHnd "pricescout/internal/matching/handler"
	"pricescout/internal/middleware"
	"pricescout/internal/pricing"
	priceHnd "pricescout/internal/pricing/handler"
	"pricescout/server/http/handlers"
)

func NewRouter(cfg config.Config, dis ai.Disambiguator, engine *pricing.Engine, store pricing.Store, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	// health-check
	r.Get("/health", handlers.Health)

	// сопоставление контрагентских записей с каталогом
	r.Post("/match", matchHnd.Match(cfg, dis, logger))
	r.Post("/verify", matchHnd.Verify(cfg, logger))

	// ценовые рекомендации
	r.Route("/recommendations", func(r chi.Router) {
		r.Get("/", priceHnd.List(store, logger))
		r.Post("/generate", priceHnd.Generate(engine, cfg.OurCompany, logger))
		r.Post("/{id}/apply", priceHnd.Resolve(store, pricing.StatusApplied, logger))
		r.Post("/{id}/reject", priceHnd.Resolve(store, pricing.StatusRejected, logger))
	})

	return r
}
