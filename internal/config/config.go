package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	OurCompany     string // имя нашего продавца в снимках цен
	GeminiAPIKey   string
	GeminiModel    string
	LLMTimeoutSec  int
	BatchSize      int // записей в одной партии дизамбигуации
	LLMConcurrency int // одновременных партий
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "256"))
	timeout, _ := strconv.Atoi(getenv("LLM_TIMEOUT_SEC", "30"))
	batch, _ := strconv.Atoi(getenv("LLM_BATCH_SIZE", "10"))
	conc, _ := strconv.Atoi(getenv("LLM_CONCURRENCY", "2"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		MaxUploadMB:  mb,
		LogFile:      getenv("LOG_FILE", "logs/pricescout.log"),

		OurCompany:     getenv("OUR_COMPANY", ""),
		GeminiAPIKey:   getenv("GEMINI_API_KEY", ""),
		GeminiModel:    getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		LLMTimeoutSec:  timeout,
		BatchSize:      batch,
		LLMConcurrency: conc,
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
