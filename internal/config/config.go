package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config enthält die Konfiguration von Loader und Catalog-Server
type Config struct {
	Scylla  ScyllaConfig  `yaml:"scylla"`
	Catalog CatalogConfig `yaml:"catalog"`
	Import  ImportConfig  `yaml:"import"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// ScyllaConfig beschreibt die Verbindung zum Cluster
type ScyllaConfig struct {
	Hosts             []string      `yaml:"hosts"`
	Port              int           `yaml:"port"`
	Username          string        `yaml:"username"`
	Password          string        `yaml:"password"`
	Consistency       string        `yaml:"consistency"`
	LocalDC           string        `yaml:"local_dc"`
	NumConns          int           `yaml:"num_conns"`
	ProtoVersion      int           `yaml:"proto_version"`
	Timeout           time.Duration `yaml:"timeout"`
	ConnectTimeout    time.Duration `yaml:"connect_timeout"`
	ReconnectInterval time.Duration `yaml:"reconnect_interval"`
	TLS               TLSConfig     `yaml:"tls"`
}

// TLSConfig verweist auf die PEM-Dateien für Client-TLS
type TLSConfig struct {
	CertPath   string `yaml:"cert_path"`
	KeyPath    string `yaml:"key_path"`
	CaPath     string `yaml:"ca_path"`
	VerifyHost bool   `yaml:"verify_host"`
}

// Enabled gibt zurück, ob TLS-Material konfiguriert ist
func (t TLSConfig) Enabled() bool {
	return t.CertPath != "" || t.KeyPath != "" || t.CaPath != ""
}

// CatalogConfig benennt Keyspace, Typ und Tabellen, in die Filme geschrieben werden
type CatalogConfig struct {
	Keyspace     string `yaml:"keyspace"`
	MetadataType string `yaml:"metadata_type"`
	MoviesTable  string `yaml:"movies_table"`
	GenreTable   string `yaml:"genre_table"`
	IDStrategy   string `yaml:"id_strategy"`
}

// ImportConfig steuert den CSV-Import
type ImportConfig struct {
	Path          string  `yaml:"path"`
	Workers       int     `yaml:"workers"`
	RatePerSecond float64 `yaml:"rate_per_second"`
	OnError       string  `yaml:"on_error"`
	RetryPasses   int     `yaml:"retry_passes"`
}

// ServerConfig steuert die Lese-API
type ServerConfig struct {
	Port         string `yaml:"port"`
	DefaultLimit int    `yaml:"default_limit"`
}

// LogConfig steuert die Log-Ausgabe
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default liefert die Standardkonfiguration ohne Datei und Umgebungsvariablen
func Default() *Config {
	return &Config{
		Scylla: ScyllaConfig{
			Hosts:             []string{"127.0.0.1"},
			Port:              9042,
			Consistency:       "QUORUM",
			NumConns:          4,
			ProtoVersion:      4,
			Timeout:           15 * time.Second,
			ConnectTimeout:    15 * time.Second,
			ReconnectInterval: 100 * time.Millisecond,
		},
		Catalog: CatalogConfig{
			Keyspace:     "movie",
			MetadataType: "metadata",
			MoviesTable:  "movies",
			GenreTable:   "movies_by_genre",
			IDStrategy:   "random",
		},
		Import: ImportConfig{
			Path:        "data/movies_by_genre.csv",
			Workers:     8,
			OnError:     "skip",
			RetryPasses: 1,
		},
		Server: ServerConfig{
			Port:         "8090",
			DefaultLimit: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load lädt die Konfiguration: erst Standardwerte, dann die optionale YAML-Datei, dann Umgebungsvariablen
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SCYLLA_HOSTS"); v != "" {
		c.Scylla.Hosts = splitList(v)
	}
	c.Scylla.Port = getEnvInt("SCYLLA_PORT", c.Scylla.Port)
	c.Scylla.Username = getEnv("SCYLLA_USERNAME", c.Scylla.Username)
	c.Scylla.Password = getEnv("SCYLLA_PASSWORD", c.Scylla.Password)
	c.Scylla.Consistency = strings.ToUpper(getEnv("SCYLLA_CONSISTENCY", c.Scylla.Consistency))
	c.Scylla.LocalDC = getEnv("SCYLLA_LOCAL_DC", c.Scylla.LocalDC)
	c.Scylla.NumConns = getEnvInt("SCYLLA_NUM_CONNS", c.Scylla.NumConns)
	c.Scylla.TLS.CertPath = getEnv("SCYLLA_TLS_CERT", c.Scylla.TLS.CertPath)
	c.Scylla.TLS.KeyPath = getEnv("SCYLLA_TLS_KEY", c.Scylla.TLS.KeyPath)
	c.Scylla.TLS.CaPath = getEnv("SCYLLA_TLS_CA", c.Scylla.TLS.CaPath)
	if v := os.Getenv("SCYLLA_RECONNECT_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SCYLLA_RECONNECT_INTERVAL: %w", err)
		}
		c.Scylla.ReconnectInterval = d
	}

	c.Catalog.Keyspace = getEnv("MOVIE_KEYSPACE", c.Catalog.Keyspace)
	c.Catalog.IDStrategy = getEnv("MOVIE_ID_STRATEGY", c.Catalog.IDStrategy)

	c.Import.Path = getEnv("MOVIES_CSV_PATH", c.Import.Path)
	c.Import.Workers = getEnvInt("IMPORT_WORKERS", c.Import.Workers)
	c.Import.RetryPasses = getEnvInt("IMPORT_RETRY_PASSES", c.Import.RetryPasses)
	if v := os.Getenv("IMPORT_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid IMPORT_RATE: %w", err)
		}
		c.Import.RatePerSecond = r
	}

	c.Server.Port = getEnv("PORT", c.Server.Port)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	return nil
}

// Validate prüft die Konfiguration auf ungültige Werte
func (c *Config) Validate() error {
	if len(c.Scylla.Hosts) == 0 {
		return fmt.Errorf("scylla.hosts must not be empty")
	}
	switch c.Scylla.Consistency {
	case "ANY", "ONE", "TWO", "THREE", "QUORUM", "ALL", "LOCAL_QUORUM", "EACH_QUORUM", "LOCAL_ONE":
	default:
		return fmt.Errorf("unknown scylla.consistency %q", c.Scylla.Consistency)
	}
	if c.Scylla.ProtoVersion < 1 {
		return fmt.Errorf("scylla.proto_version must be at least 1")
	}
	if c.Scylla.TLS.KeyPath != "" && c.Scylla.TLS.CertPath == "" {
		return fmt.Errorf("scylla.tls.key_path requires scylla.tls.cert_path")
	}
	if c.Catalog.Keyspace == "" || c.Catalog.MetadataType == "" || c.Catalog.MoviesTable == "" || c.Catalog.GenreTable == "" {
		return fmt.Errorf("catalog keyspace, metadata_type, movies_table and genre_table must be set")
	}
	switch c.Catalog.IDStrategy {
	case "random", "time":
	default:
		return fmt.Errorf("unknown catalog.id_strategy %q", c.Catalog.IDStrategy)
	}
	if c.Import.Workers < 1 {
		return fmt.Errorf("import.workers must be at least 1")
	}
	if c.Import.RatePerSecond < 0 {
		return fmt.Errorf("import.rate_per_second must not be negative")
	}
	if c.Import.RetryPasses < 0 {
		return fmt.Errorf("import.retry_passes must not be negative")
	}
	switch c.Import.OnError {
	case "skip", "abort":
	default:
		return fmt.Errorf("unknown import.on_error %q", c.Import.OnError)
	}
	if c.Server.DefaultLimit < 1 {
		return fmt.Errorf("server.default_limit must be at least 1")
	}
	return nil
}

// getEnv gibt den Wert einer Umgebungsvariablen zurück oder einen Standardwert
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gibt den Wert einer Umgebungsvariablen als Integer zurück oder einen Standardwert
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
