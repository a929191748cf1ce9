package types

import "time"

// HTTPConfig holds shared HTTP settings used by source collaborators that
// fetch remote pages or APIs.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sota-extractor/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ParseConfig holds settings for the markdown corpus parser.
type ParseConfig struct {
	// ModelParser selects the model-name strategy: annotated (default) or anchored.
	ModelParser string `json:"model_parser" yaml:"model_parser"`

	// TitleCaseTasks title-cases task and subtask names (default true).
	TitleCaseTasks bool `json:"title_case_tasks" yaml:"title_case_tasks"`

	// RulesFile is an optional YAML file of hierarchy-correction rules.
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty"`

	// SynonymFiles are CSV files of (task_name, synonym) rows.
	SynonymFiles []string `json:"synonym_files,omitempty" yaml:"synonym_files,omitempty"`
}

// ScrapeConfig holds settings for the scrape stage.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxRetries bounds retries on HTTP 429 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// NLPProgressRepo is the git URL cloned by the nlp-progress source.
	NLPProgressRepo string `json:"nlp_progress_repo" yaml:"nlp_progress_repo"`
}

// StoreConfig holds settings for the SQLite index.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "index/sota.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PublishConfig holds settings for publishing exports to object storage.
type PublishConfig struct {
	Region string `json:"region" yaml:"region"`

	// Endpoint overrides the S3 endpoint (MinIO and other compatible stores).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	PathStyle bool `json:"path_style" yaml:"path_style"`

	// AccessKeyID and SecretAccessKey are optional static credentials; when
	// empty the default AWS credential chain is used.
	AccessKeyID     string `json:"access_key_id,omitempty" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `json:"secret_access_key,omitempty" yaml:"secret_access_key,omitempty"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level"`

	// Development switches to the console encoder.
	Development bool `json:"development" yaml:"development"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Parse   ParseConfig   `json:"parse" yaml:"parse"`
	Scrape  ScrapeConfig  `json:"scrape" yaml:"scrape"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Publish PublishConfig `json:"publish" yaml:"publish"`
	Log     LogConfig     `json:"log" yaml:"log"`
}
