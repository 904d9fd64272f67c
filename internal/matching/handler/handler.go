package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pricescout/internal/ai"
	"pricescout/internal/config"
	"pricescout/internal/fileio"
	"pricescout/internal/matching/model"
	matchSvc "pricescout/internal/matching/service"
)

// Match возвращает http.HandlerFunc для r.Post("/match", ...): multipart с
// файлами catalog и records, колонки задаются полями формы.
func Match(cfg config.Config, dis ai.Disambiguator, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := withReqID(logger, r)

		records, catalog, ok := parseUpload(w, r, log)
		if !ok {
			return
		}

		opt := matchSvc.Options{
			BatchSize:   cfg.BatchSize,
			Concurrency: cfg.LLMConcurrency,
			UseAI:       toBool(r.FormValue("use_ai"), dis != nil),
		}
		m := matchSvc.NewMatcher(opt, dis, log)
		report := m.Run(r.Context(), records, catalog)

		writeJSON(w, log, report)
		log.Info().
			Int("records", len(records)).
			Int("catalog", len(catalog)).
			Bool("use_ai", opt.UseAI).
			Dur("elapsed", time.Since(start)).
			Msg("match done")
	}
}

// Verify — режим только-проверки: записи уже несут заявленный ID каталога.
func Verify(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := withReqID(logger, r)

		records, catalog, ok := parseUpload(w, r, log)
		if !ok {
			return
		}

		m := matchSvc.NewMatcher(matchSvc.Options{}, nil, log)
		report := m.Verify(records, catalog)

		writeJSON(w, log, report)
		log.Info().
			Int("records", len(records)).
			Int("catalog", len(catalog)).
			Dur("elapsed", time.Since(start)).
			Msg("verify done")
	}
}

// parseUpload читает оба файла и применяет маппинги колонок. При ошибке сам
// пишет ответ и возвращает ok=false.
func parseUpload(w http.ResponseWriter, r *http.Request, log zerolog.Logger) ([]model.SourceRecord, []model.CatalogEntry, bool) {
	defer r.Body.Close()
	if err := r.ParseMultipartForm(200 << 20); err != nil { // 200MB
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}

	catFile, catHeader, err := r.FormFile("catalog")
	if err != nil {
		http.Error(w, "missing catalog: "+err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}
	defer catFile.Close()

	recFile, recHeader, err := r.FormFile("records")
	if err != nil {
		http.Error(w, "missing records: "+err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}
	defer recFile.Close()

	// Читаем таблицы (auto-encoding CSV, XLS/XLSX и т.д. внутри fileio)
	catMaps, err := fileio.ReadAnyMaps(catFile, catHeader.Filename, atoi(r.FormValue("catalog_header_row"), 1))
	if err != nil {
		http.Error(w, "failed to read catalog: "+err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}
	recMaps, err := fileio.ReadAnyMaps(recFile, recHeader.Filename, atoi(r.FormValue("records_header_row"), 1))
	if err != nil {
		http.Error(w, "failed to read records: "+err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}

	cm := catalogMapping{
		IDKey:     formDefault(r, "catalog_id", "id|код|артикул"),
		NameKey:   formDefault(r, "catalog_name", "name|наименование|номенклатура"),
		BrandKey:  formDefault(r, "catalog_brand", "brand|бренд"),
		WeightKey: formDefault(r, "catalog_weight", "weight|вес|объем"),
		UnitKey:   formDefault(r, "catalog_unit", "unit|ед|единица"),
	}
	rm := recordMapping{
		TitleKey:     formDefault(r, "rec_title", "title|name|наименование"),
		BrandKey:     formDefault(r, "rec_brand", "brand|бренд"),
		CategoryKey:  formDefault(r, "rec_category", "category|категория"),
		PriceKey:     formDefault(r, "rec_price", "price|цена"),
		MatchedIDKey: formDefault(r, "rec_matched_id", "matched_id|сопоставление"),
	}

	catalog := toCatalogEntries(catMaps, cm)
	records := toSourceRecords(recMaps, rm)
	log.Debug().
		Int("catalog_raw", len(catMaps)).
		Int("catalog_mapped", len(catalog)).
		Int("records_raw", len(recMaps)).
		Int("records_mapped", len(records)).
		Msg("upload parsed")
	return records, catalog, true
}

func withReqID(logger zerolog.Logger, r *http.Request) zerolog.Logger {
	if reqID := r.Header.Get("X-Request-ID"); reqID != "" {
		return logger.With().Str("req_id", reqID).Logger()
	}
	return logger
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

func formDefault(r *http.Request, key, def string) string {
	if v := strings.TrimSpace(r.FormValue(key)); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
