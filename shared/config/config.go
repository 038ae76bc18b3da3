package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	HttpPort       string   `yaml:"http_port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	LogLevel       string   `yaml:"log_level"`
	LogJSON        bool     `yaml:"log_json"`
	BehindTLS      bool     `yaml:"behind_tls"` // adds HSTS

	ThreadsPerPage int `yaml:"threads_per_page" validate:"required,min=1"`
	RecentReplies  int `yaml:"recent_replies" validate:"required,min=1"`  // replies shown under each thread on a board page
	PopularThreads int `yaml:"popular_threads" validate:"required,min=1"` // threads shown on the front page
	BumpLimit      int `yaml:"bump_limit" validate:"min=0"`               // if thread has more replies it will not get "bumped"; 0 disables
	AllowSage      bool `yaml:"allow_sage"`                               // replies marked sage do not bump

	MaxContentLength int `yaml:"max_content_length" validate:"required,min=1"`
	MaxSubjectLength int `yaml:"max_subject_length" validate:"required,min=1"`
	MaxNameLength    int `yaml:"max_name_length" validate:"required,min=1"`
	MaxBoardCode     int `yaml:"max_board_code_length" validate:"required,min=1"`

	StoreRetries        int `yaml:"store_retries" validate:"min=0"`
	StoreRetryBaseDelay int `yaml:"store_retry_base_delay_ms" validate:"min=0"` // milliseconds
	RequestTimeout      int `yaml:"request_timeout"`                             // seconds
	ReconcileInterval   int `yaml:"reconcile_interval"`                          // seconds; 0 disables the periodic job
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname" validate:"required"`
}

type Private struct {
	Pg     Pg     `yaml:"pg"`
	JwtKey string `yaml:"jwt_key" validate:"required"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.Public.StoreRetryBaseDelay) * time.Millisecond
}

func (c *Config) RequestTimeout() time.Duration {
	if c.Public.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Public.RequestTimeout) * time.Second
}

func (c *Config) ReconcileInterval() time.Duration {
	return time.Duration(c.Public.ReconcileInterval) * time.Second
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}

	if err = yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + configPath)
	}
}

func mustValidate(v interface{}, name string) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(v); err != nil {
		panic(fmt.Sprintf("invalid %s config: %s", name, err))
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	mustValidate(public, "public")

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)
	mustValidate(private, "private")

	if public.HttpPort == "" {
		public.HttpPort = "8080"
	}
	return &Config{public, private}
}
