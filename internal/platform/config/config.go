package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/stadslab/heat-readiness-map/apps/api/pkg/model"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port           string
	GinMode        string
	AllowedOrigins string

	// Source of the CSV extract: a GCS object, an HTTP URL, or a local file.
	// Exactly one kind is required; precedence is GCS, URL, file.
	GCSBucket      string
	DataObject     string
	RegionsObject  string
	GCSCredsBase64 string
	GCSCredsFile   string
	DataURL        string
	DataFile       string
	RegionsFile    string

	DefaultCriteria model.Criteria
}

// Load reads environment variables into a Config with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "release"),
		AllowedOrigins: strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")),
		GCSBucket:      strings.TrimSpace(os.Getenv("GCS_BUCKET")),
		DataObject:     strings.TrimSpace(os.Getenv("GCS_DATA_OBJECT")),
		RegionsObject:  strings.TrimSpace(os.Getenv("GCS_REGIONS_OBJECT")),
		GCSCredsBase64: strings.TrimSpace(os.Getenv("GCS_CREDS_BASE64")),
		GCSCredsFile:   strings.TrimSpace(os.Getenv("GCS_CREDS_FILE")),
		DataURL:        strings.TrimSpace(os.Getenv("DATA_URL")),
		DataFile:       strings.TrimSpace(os.Getenv("DATA_FILE")),
		RegionsFile:    strings.TrimSpace(os.Getenv("REGIONS_FILE")),
	}

	criteria, err := criteriaFromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg.DefaultCriteria = criteria

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures a data source is configured.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.GCSBucket != "" && c.DataObject == "" {
		return errors.New("GCS_DATA_OBJECT is required when GCS_BUCKET is set")
	}
	if c.GCSBucket == "" && c.DataURL == "" && c.DataFile == "" {
		return errors.New("provide GCS_BUCKET+GCS_DATA_OBJECT, DATA_URL, or DATA_FILE as the CSV source")
	}
	return nil
}

// GCSCredentialsJSON returns the service account JSON bytes and the source
// used. Empty bytes with no error means "use application default credentials".
func (c Config) GCSCredentialsJSON() ([]byte, string, error) {
	if c.GCSCredsBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(c.GCSCredsBase64)
		if err != nil {
			return nil, "base64", fmt.Errorf("decode GCS_CREDS_BASE64: %w", err)
		}
		return decoded, "base64", nil
	}
	if c.GCSCredsFile != "" {
		data, err := os.ReadFile(c.GCSCredsFile)
		if err != nil {
			return nil, "file", fmt.Errorf("read GCS_CREDS_FILE: %w", err)
		}
		return data, "file", nil
	}
	return nil, "default", nil
}

// criteriaFromEnv builds the default scoring criteria. The defaults mirror the
// frontend's initial slider state: poor label, pre-war year, busy road.
func criteriaFromEnv() (model.Criteria, error) {
	c := model.Criteria{
		EnergyOp:    getEnv("ENERGY_OP", "<="),
		EnergyLabel: getEnv("ENERGY_LABEL", "C"),
		YearOp:      getEnv("YEAR_OP", "<="),
	}
	var err error
	if c.EnergyWeight, err = parseFloatEnv("ENERGY_WEIGHT", 0.5); err != nil {
		return model.Criteria{}, err
	}
	if c.YearValue, err = parseIntEnv("YEAR_VALUE", 1945); err != nil {
		return model.Criteria{}, err
	}
	if c.YearWeight, err = parseFloatEnv("YEAR_WEIGHT", 0.3); err != nil {
		return model.Criteria{}, err
	}
	if c.BusyRoadWeight, err = parseFloatEnv("BUSY_ROAD_WEIGHT", 0.2); err != nil {
		return model.Criteria{}, err
	}
	return c, nil
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func parseFloatEnv(key string, defaultVal float64) (float64, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}

func parseIntEnv(key string, defaultVal int) (int, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}
