package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/reflekt/internal/expansion"
	"github.com/alexanderramin/reflekt/internal/llm"
)

type storeKind string

const (
	storeSQLite storeKind = "sqlite"
	storeMemory storeKind = "memory"
	storeRedis  storeKind = "redis"
)

type config struct {
	DBPath        string
	User          string
	Store         storeKind
	RedisAddr     string
	LogMode       string
	MinConfidence float64
	LLM           llm.LLMConfig
}

// loadConfig reads REFLEKT_* variables. Unparseable values keep the default.
func loadConfig() (config, error) {
	cfg := config{
		DBPath:        os.Getenv("REFLEKT_DB"),
		User:          "local",
		Store:         storeSQLite,
		RedisAddr:     "127.0.0.1:6379",
		MinConfidence: expansion.DefaultMinConfidence,
		LLM:           llm.LoadConfig(),
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".reflekt", "reflekt.db")
	}
	if v := os.Getenv("REFLEKT_USER"); v != "" {
		cfg.User = v
	}
	switch kind := storeKind(os.Getenv("REFLEKT_STORE")); kind {
	case storeSQLite, storeMemory, storeRedis:
		cfg.Store = kind
	}
	if v := os.Getenv("REFLEKT_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	switch v := os.Getenv("REFLEKT_LOG_MODE"); v {
	case "dev", "prod":
		cfg.LogMode = v
	}
	if v := os.Getenv("REFLEKT_EXPANSION_MIN_CONFIDENCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.MinConfidence = f
		}
	}
	return cfg, nil
}
