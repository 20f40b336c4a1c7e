// Package config exposes the application settings read through viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Gateway kinds accepted by gateway.kind.
const (
	GatewayMock   = "mock"
	GatewaySQLite = "sqlite"
	GatewayHTTP   = "http"
)

// Config keys.
const (
	KeyGatewayKind     = "gateway.kind"
	KeyGatewaySeed     = "gateway.seed"
	KeyGatewayLatency  = "gateway.latency"
	KeyGatewayFailRate = "gateway.failrate"
	KeyGatewayRPS      = "gateway.rps"
	KeySQLiteDBFile    = "sqlite.dbfile"
	KeyHTTPBaseURL     = "http.baseurl"
	KeyHTTPToken       = "http.token"
	KeyLogFile         = "log.file"
	KeyViewCacheSize   = "view.cachesize"
	KeyMetricsAddr     = "metrics.addr"
	KeyExportOverwrite = "export.overwrite"
)

// Global configuration variables
var (
	// OverwriteFiles controls whether export may replace an existing file
	OverwriteFiles bool
)

// Settings is a typed view of the viper configuration.
type Settings struct {
	GatewayKind string
	Seed        string
	Latency     time.Duration
	FailRate    float64
	RPS         float64
	SQLiteFile  string
	BaseURL     string
	Token       string
	LogFile     string
	CacheSize   int
	MetricsAddr string
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault(KeyGatewayKind, GatewayMock)
	viper.SetDefault(KeyGatewaySeed, "")
	viper.SetDefault(KeyGatewayLatency, "500ms")
	viper.SetDefault(KeyGatewayFailRate, 0.0)
	viper.SetDefault(KeyGatewayRPS, 0.0)
	viper.SetDefault(KeySQLiteDBFile, "./bookshelf.db")
	viper.SetDefault(KeyHTTPBaseURL, "http://localhost:3000")
	viper.SetDefault(KeyHTTPToken, "")
	viper.SetDefault(KeyLogFile, "./bookshelf.log")
	viper.SetDefault(KeyViewCacheSize, 32)
	viper.SetDefault(KeyMetricsAddr, "")
	viper.SetDefault(KeyExportOverwrite, false)
}

// InitConfig initializes the global configuration
func InitConfig() {
	OverwriteFiles = viper.GetBool(KeyExportOverwrite)
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}

// Load reads the current settings from viper.
func Load() (Settings, error) {
	s := Settings{
		GatewayKind: viper.GetString(KeyGatewayKind),
		Seed:        viper.GetString(KeyGatewaySeed),
		Latency:     viper.GetDuration(KeyGatewayLatency),
		FailRate:    viper.GetFloat64(KeyGatewayFailRate),
		RPS:         viper.GetFloat64(KeyGatewayRPS),
		SQLiteFile:  viper.GetString(KeySQLiteDBFile),
		BaseURL:     viper.GetString(KeyHTTPBaseURL),
		Token:       viper.GetString(KeyHTTPToken),
		LogFile:     viper.GetString(KeyLogFile),
		CacheSize:   viper.GetInt(KeyViewCacheSize),
		MetricsAddr: viper.GetString(KeyMetricsAddr),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks values viper cannot type-check.
func (s Settings) Validate() error {
	switch s.GatewayKind {
	case GatewayMock, GatewaySQLite, GatewayHTTP:
	default:
		return fmt.Errorf("unknown %s %q (want %s, %s or %s)", KeyGatewayKind, s.GatewayKind, GatewayMock, GatewaySQLite, GatewayHTTP)
	}
	if s.FailRate < 0 || s.FailRate > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %v", KeyGatewayFailRate, s.FailRate)
	}
	if s.Latency < 0 {
		return fmt.Errorf("%s must not be negative, got %s", KeyGatewayLatency, s.Latency)
	}
	if s.GatewayKind == GatewaySQLite && s.SQLiteFile == "" {
		return fmt.Errorf("%s is required for the sqlite gateway", KeySQLiteDBFile)
	}
	if s.GatewayKind == GatewayHTTP && s.BaseURL == "" {
		return fmt.Errorf("%s is required for the http gateway", KeyHTTPBaseURL)
	}
	return nil
}
