package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	BackendHost   string
	BackendPort   int
	ListenHost    string
	ListenPort    int
	DBPath        string
	LogPath       string
	BlocklistPath string
	PollInterval  time.Duration
	HTTPTimeout   time.Duration
}

var cfg AppConfig

// Init reads the agent config file (if present) and fills defaults.
func Init(path string) AppConfig {
	v := viper.New()
	if path == "" {
		path = "config/config.yaml"
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// defaults
	v.SetDefault("agent.backend.host", "127.0.0.1")
	v.SetDefault("agent.backend.port", 8000)
	v.SetDefault("agent.listen.host", "127.0.0.1")
	v.SetDefault("agent.listen.port", 8600)
	v.SetDefault("agent.db_path", filepath.Join(os.TempDir(), "webguard", "agent.db"))
	v.SetDefault("agent.log_path", "")
	v.SetDefault("agent.blocklist_path", "")
	v.SetDefault("agent.poll_interval", "2s")
	v.SetDefault("agent.http_timeout", "3s")
	_ = v.ReadInConfig()

	cfg = AppConfig{
		BackendHost:   v.GetString("agent.backend.host"),
		BackendPort:   v.GetInt("agent.backend.port"),
		ListenHost:    v.GetString("agent.listen.host"),
		ListenPort:    v.GetInt("agent.listen.port"),
		DBPath:        v.GetString("agent.db_path"),
		LogPath:       v.GetString("agent.log_path"),
		BlocklistPath: v.GetString("agent.blocklist_path"),
		PollInterval:  v.GetDuration("agent.poll_interval"),
		HTTPTimeout:   v.GetDuration("agent.http_timeout"),
	}
	return cfg
}

func Get() AppConfig { return cfg }

func BackendAddr() string { return fmt.Sprintf("%s:%d", cfg.BackendHost, cfg.BackendPort) }

func ListenAddr() string { return fmt.Sprintf("%s:%d", cfg.ListenHost, cfg.ListenPort) }
