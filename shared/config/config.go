package config

import (
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
	HttpPort      int           `yaml:"http_port" validate:"required"`
	JwtTTL        time.Duration `yaml:"jwt_ttl" validate:"required"`
	SecureCookies bool          `yaml:"secure_cookies"`
	CorsOrigins   []string      `yaml:"cors_origins"`
	Log           Log           `yaml:"log"`
	Mongo         MongoPublic   `yaml:"mongo" validate:"required"`
	Board         Board         `yaml:"board" validate:"required"`
	Jobs          Jobs          `yaml:"jobs" validate:"required"`
	Charts        Charts        `yaml:"charts"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type MongoPublic struct {
	Database       string        `yaml:"database" validate:"required"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"` // seconds
	QueryTimeout   time.Duration `yaml:"query_timeout"`   // seconds
	MaxPoolSize    uint64        `yaml:"max_pool_size"`
}

type Board struct {
	DefaultPageSize int `yaml:"default_page_size" validate:"required,min=1,max=100"`
	MaxContentLen   int `yaml:"max_content_len" validate:"required"`
}

// Charts.FontPath points at a TrueType font used for chart labels. Empty keeps
// the built-in Latin font, which has no Hangul glyphs.
type Charts struct {
	FontPath string `yaml:"font_path"`
}

type Jobs struct {
	CompanyDirectoryRefresh time.Duration `yaml:"company_directory_refresh" validate:"required"` // seconds
	StatusRefreshCron       string        `yaml:"status_refresh_cron" validate:"required"`
}

type Private struct {
	JwtKey   string `yaml:"jwt_key" validate:"required"`
	MongoURI string `yaml:"mongo_uri" validate:"required"`
	Email    Email  `yaml:"email"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"` // seconds
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL * time.Second
}

func (m MongoPublic) QueryTimeoutOrDefault() time.Duration {
	if m.QueryTimeout == 0 {
		return 5 * time.Second
	}
	return m.QueryTimeout * time.Second
}

func (m MongoPublic) ConnectTimeoutOrDefault() time.Duration {
	if m.ConnectTimeout == 0 {
		return 20 * time.Second
	}
	return m.ConnectTimeout * time.Second
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file " + configPath + ": " + err.Error())
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{Public: public, Private: private}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}
