package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr        string
	DBUrl       string
	TokenSecret string
	TokenTTL    time.Duration
	Debug       bool
	PublicURL   string
	ServerURL   string
}

// file mirrors Config in the YAML configuration file.
type file struct {
	Host        string        `yaml:"host"`
	Port        uint          `yaml:"port"`
	DBUrl       string        `yaml:"db_url"`
	TokenSecret string        `yaml:"token_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	Debug       bool          `yaml:"debug"`
	PublicURL   string        `yaml:"public_url"`
	ServerURL   string        `yaml:"server_url"`
}

const (
	defaultHost      = "0.0.0.0"
	defaultPort      = 8080
	defaultDBUrl     = "qsurvey.sqlite"
	defaultTokenTTL  = 120 * time.Second
	defaultServerURL = "http://localhost:8080"
)

const (
	EnvDBUrl       = "QSURVEY_DB_URL"
	EnvTokenSecret = "QSURVEY_TOKEN_SECRET"
	EnvServerURL   = "QSURVEY_SERVER"
)

// RegisterFlags adds every configuration flag to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML configuration file")
	fs.String("host", defaultHost, "listen host name")
	fs.Uint("port", defaultPort, "listen port number")
	fs.String("db-url", defaultDBUrl, "path to SQLite3 DB file")
	fs.String("token-secret", "", "secret key for token encryption and decryption")
	fs.Duration("token-ttl", defaultTokenTTL, "access token TTL")
	fs.Bool("debug", false, "log at DEBUG level")
	fs.String("public-url", "", "base URL used in share links (defaults to the listen address)")
	fs.String("server", defaultServerURL, "base URL of the API, for client commands")
}

// Load builds the configuration from, in increasing priority: defaults, the
// YAML file named by --config, environment variables and explicitly set flags.
func Load(fs *pflag.FlagSet) (cfg Config, err error) {
	f := file{
		Host:      defaultHost,
		Port:      defaultPort,
		DBUrl:     defaultDBUrl,
		TokenTTL:  defaultTokenTTL,
		ServerURL: defaultServerURL,
	}

	path, _ := fs.GetString("config")
	if path != "" {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err = yaml.Unmarshal(data, &f); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvDBUrl); v != "" {
		f.DBUrl = v
	}
	if v := os.Getenv(EnvTokenSecret); v != "" {
		f.TokenSecret = v
	}
	if v := os.Getenv(EnvServerURL); v != "" {
		f.ServerURL = v
	}

	if fs.Changed("host") {
		f.Host, _ = fs.GetString("host")
	}
	if fs.Changed("port") {
		f.Port, _ = fs.GetUint("port")
	}
	if fs.Changed("db-url") {
		f.DBUrl, _ = fs.GetString("db-url")
	}
	if fs.Changed("token-secret") {
		f.TokenSecret, _ = fs.GetString("token-secret")
	}
	if fs.Changed("token-ttl") {
		f.TokenTTL, _ = fs.GetDuration("token-ttl")
	}
	if fs.Changed("debug") {
		f.Debug, _ = fs.GetBool("debug")
	}
	if fs.Changed("public-url") {
		f.PublicURL, _ = fs.GetString("public-url")
	}
	if fs.Changed("server") {
		f.ServerURL, _ = fs.GetString("server")
	}

	cfg = Config{
		Addr:        net.JoinHostPort(f.Host, strconv.Itoa(int(f.Port))),
		DBUrl:       f.DBUrl,
		TokenSecret: f.TokenSecret,
		TokenTTL:    f.TokenTTL,
		Debug:       f.Debug,
		PublicURL:   strings.TrimRight(f.PublicURL, "/"),
		ServerURL:   strings.TrimRight(f.ServerURL, "/"),
	}
	return cfg, nil
}

// ValidateServer checks the settings the HTTP server cannot run without.
func (cfg Config) ValidateServer() error {
	if cfg.TokenSecret == "" {
		return errors.New("missing parameter --token-secret (or " + EnvTokenSecret + ")")
	}
	if cfg.TokenTTL <= 0 {
		return errors.New("--token-ttl must be positive")
	}
	return nil
}

func (cfg Config) Url() (url string) {
	if cfg.PublicURL != "" {
		return cfg.PublicURL
	}
	url = cfg.Addr
	url = regexp.MustCompile(`^0\.0\.0\.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
