package server

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/orderdesk/orderdesk/internal/export"
	"github.com/orderdesk/orderdesk/pkg/stringsutil"
	"github.com/orderdesk/orderdesk/pkg/pagination"
)

type Config struct {
	Port        string
	CorsOrigins []string

	DatabaseURL string
	Locale      string

	PageSize        int
	ExportBatchSize int
}

func LoadConfig() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	var origins []string
	corsOriginsEnv := os.Getenv("CORS_ORIGINS")
	if corsOriginsEnv != "" {
		origins = strings.Split(corsOriginsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		origins = stringsutil.RemoveEmptyStrings(origins)
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	pageSize, err := positiveIntEnv("PAGE_SIZE", pagination.PageDefaultSize)
	if err != nil {
		return nil, err
	}
	batchSize, err := positiveIntEnv("EXPORT_BATCH_SIZE", export.DefaultBatchSize)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:            port,
		CorsOrigins:     origins,
		DatabaseURL:     dbURL,
		Locale:          os.Getenv("LOCALE"),
		PageSize:        pageSize,
		ExportBatchSize: batchSize,
	}, nil
}

func positiveIntEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive number", name)
	}
	return v, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
