package types

import "time"

// CorpusConfig holds settings for the corpus store.
type CorpusConfig struct {
	// DataDir is the directory holding the SQLite database and exports.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// ModelConfig locates the trained artifacts.
type ModelConfig struct {
	// VectorizerPath is the TF-IDF vector space artifact (YAML).
	VectorizerPath string `json:"vectorizer_path" yaml:"vectorizer_path" mapstructure:"vectorizer_path"`

	// ClassifierPath is the category classifier artifact (YAML).
	ClassifierPath string `json:"classifier_path" yaml:"classifier_path" mapstructure:"classifier_path"`

	// FitOnStart fits the vector space from the corpus at startup when the
	// vectorizer artifact is missing instead of failing.
	FitOnStart bool `json:"fit_on_start" yaml:"fit_on_start" mapstructure:"fit_on_start"`
}

// SearchConfig holds defaults for the research listing.
type SearchConfig struct {
	// PageSize is the listing page size (default 15).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// Sort is the default order: newest, oldest or relevance.
	Sort SortOrder `json:"sort" yaml:"sort" mapstructure:"sort"`

	// MinScore drops similarity hits below it (default 0, keep all).
	MinScore float64 `json:"min_score" yaml:"min_score" mapstructure:"min_score"`
}

// ProblemConfig holds settings for problem-submission recommendations.
type ProblemConfig struct {
	// Candidates is how many ranked records are considered (default 50).
	Candidates int `json:"candidates" yaml:"candidates" mapstructure:"candidates"`

	// Keep is how many deduplicated recommendations are returned (default 20).
	Keep int `json:"keep" yaml:"keep" mapstructure:"keep"`

	// PageSize is the page size of the recommendation listing (default 5).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`
}

// IngestConfig holds settings for record ingestion.
type IngestConfig struct {
	// Workers is the classification pool size for bulk uploads.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// RateLimit is the number of requests per RateWindow allowed per IP.
	RateLimit int `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`

	RateWindow time.Duration `json:"rate_window" yaml:"rate_window" mapstructure:"rate_window"`

	// SecretsDir holds admin-token-hash.
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings.
type Config struct {
	Corpus  CorpusConfig  `json:"corpus" yaml:"corpus" mapstructure:"corpus"`
	Model   ModelConfig   `json:"model" yaml:"model" mapstructure:"model"`
	Search  SearchConfig  `json:"search" yaml:"search" mapstructure:"search"`
	Problem ProblemConfig `json:"problem" yaml:"problem" mapstructure:"problem"`
	Ingest  IngestConfig  `json:"ingest" yaml:"ingest" mapstructure:"ingest"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// Defaults fills zero-valued settings with their defaults.
func (c *Config) Defaults() {
	if c.Corpus.DataDir == "" {
		c.Corpus.DataDir = "data"
	}
	if c.Model.VectorizerPath == "" {
		c.Model.VectorizerPath = "models/vectorizer.yaml"
	}
	if c.Model.ClassifierPath == "" {
		c.Model.ClassifierPath = "models/classifier.yaml"
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = 15
	}
	if !c.Search.Sort.Valid() {
		c.Search.Sort = SortNewest
	}
	if c.Problem.Candidates <= 0 {
		c.Problem.Candidates = 50
	}
	if c.Problem.Keep <= 0 {
		c.Problem.Keep = 20
	}
	if c.Problem.PageSize <= 0 {
		c.Problem.PageSize = 5
	}
	if c.Ingest.Workers <= 0 {
		c.Ingest.Workers = 4
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RateLimit <= 0 {
		c.Server.RateLimit = 100
	}
	if c.Server.RateWindow <= 0 {
		c.Server.RateWindow = time.Minute
	}
	if c.Server.SecretsDir == "" {
		c.Server.SecretsDir = ".secrets"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}
