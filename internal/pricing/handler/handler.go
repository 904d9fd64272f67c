package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pricescout/internal/pricing"
)

type generateRequest struct {
	Product pricing.Product       `json:"product"`
	Prices  []pricing.SellerPrice `json:"prices"`
}

// Generate — POST /recommendations/generate: товар плюс снимок цен,
// в ответе рекомендация либо {"recommendation": null}.
// ourCompany — имя нашего продавца из конфигурации: продавцы с таким именем
// помечаются is_our_company, даже если клиент флаг не проставил.
func Generate(engine *pricing.Engine, ourCompany string, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Product.ID) == "" {
			http.Error(w, "product.id is required", http.StatusBadRequest)
			return
		}

		if ourCompany != "" {
			for i := range req.Prices {
				if strings.EqualFold(strings.TrimSpace(req.Prices[i].Seller), ourCompany) {
					req.Prices[i].IsOurCompany = true
				}
			}
		}

		rec := engine.Generate(req.Product, req.Prices)
		writeJSON(w, logger, map[string]any{"recommendation": rec})
	}
}

// List — GET /recommendations?status=PENDING
func List(store pricing.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := pricing.Status(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
		switch status {
		case "", pricing.StatusPending, pricing.StatusApplied, pricing.StatusRejected:
		default:
			http.Error(w, "unknown status: "+string(status), http.StatusBadRequest)
			return
		}
		writeJSON(w, logger, map[string]any{"recommendations": store.List(status)})
	}
}

// Resolve — POST /recommendations/{id}/apply | /reject.
func Resolve(store pricing.Store, status pricing.Status, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := store.Get(id); !ok {
			http.Error(w, "recommendation not found: "+id, http.StatusNotFound)
			return
		}
		if err := store.SetStatus(id, status); err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		rec, _ := store.Get(id)
		logger.Info().Str("id", id).Str("status", string(status)).Msg("recommendation resolved")
		writeJSON(w, logger, map[string]any{"recommendation": rec})
	}
}

func writeJSON(w http.ResponseWriter, log zerolog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error().Err(err).Msg("write json")
	}
}
