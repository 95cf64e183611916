// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"github.com/stratastor/logger"
	"github.com/ovsyannikovas/minio-ranger-gateway/internal/constants"
	"gopkg.in/yaml.v3"
)

var (
	instance   *Config
	once       sync.Once
	configPath string // Tracks where the config was loaded from
)

type Config struct {
	Server struct {
		Port     int    `mapstructure:"port"`
		LogLevel string `mapstructure:"logLevel"`
	} `mapstructure:"server"`

	Ranger struct {
		Host           string `mapstructure:"host"`
		User           string `mapstructure:"user"`
		Password       string `mapstructure:"password"`
		ServiceName    string `mapstructure:"serviceName"`
		ServiceDefName string `mapstructure:"serviceDefName"`
		CacheTTL       int    `mapstructure:"cacheTTL"` // seconds; also the policy refresh interval
	} `mapstructure:"ranger"`

	Solr struct {
		AuditURL string `mapstructure:"auditURL"`
	} `mapstructure:"solr"`

	API struct {
		Host string `mapstructure:"host"` // reported as agentHost in audit records
	} `mapstructure:"api"`

	// Comma-separated CIDRs or IPs; empty disables the ingress filter.
	IPWhitelist string `mapstructure:"ipWhitelist"`

	Audit struct {
		QueueSize int `mapstructure:"queueSize"`
	} `mapstructure:"audit"`

	Cache struct {
		DecisionSize int `mapstructure:"decisionSize"`
		SubjectSize  int `mapstructure:"subjectSize"`
	} `mapstructure:"cache"`

	Logs struct {
		Path   string `mapstructure:"path"`
		Output string `mapstructure:"output"` // stdout or file
	} `mapstructure:"logs"`

	Logger struct {
		LogLevel     string `mapstructure:"logLevel"`
		EnableSentry bool   `mapstructure:"enableSentry"`
		SentryDSN    string `mapstructure:"sentryDSN"`
	} `mapstructure:"logger"`

	Environment string `mapstructure:"environment"`
}

// LoadConfig loads the configuration with precedence rules.
func LoadConfig(configFilePath string) *Config {
	once.Do(func() {
		// Setup basic logger for initialization
		logConfig := logger.Config{
			LogLevel:     "info",
			EnableSentry: false,
			SentryDSN:    "",
		}
		l, err := logger.NewTag(logConfig, "config")
		if err != nil {
			fmt.Printf("Failed to create logger: %v\n", err)
			os.Exit(1)
		}

		viper.Reset()
		viper.SetConfigType("yaml")

		// Determine which config file to use with clear priorities
		systemConfigPath := filepath.Join(GetConfigDir(), constants.ConfigFileName)

		if configFilePath != "" {
			// 1. Priority: Explicit path from command line
			configPath = configFilePath
		} else if envPath := os.Getenv("MRG_CONFIG"); envPath != "" {
			// 2. Priority: Environment variable
			configPath = envPath
		} else {
			// 3. Priority: Always default to system-wide config
			configPath = systemConfigPath
		}

		absPath, err := filepath.Abs(configPath)
		if err == nil {
			configPath = absPath
		}

		viper.SetConfigFile(configPath)

		// Set defaults
		viper.SetDefault("environment", "dev")
		viper.SetDefault("server.port", 8000)
		viper.SetDefault("server.logLevel", "debug")
		viper.SetDefault("ranger.host", "http://ranger:6080")
		viper.SetDefault("ranger.user", "admin")
		viper.SetDefault("ranger.password", "admin")
		viper.SetDefault("ranger.serviceName", "minio-service")
		viper.SetDefault("ranger.serviceDefName", "minio-service-def")
		viper.SetDefault("ranger.cacheTTL", 300)
		viper.SetDefault("solr.auditURL", "http://ranger-solr:8983/solr/ranger_audits")
		viper.SetDefault("api.host", "localhost")
		viper.SetDefault("ipWhitelist", "")
		viper.SetDefault("audit.queueSize", 1024)
		viper.SetDefault("cache.decisionSize", 10000)
		viper.SetDefault("cache.subjectSize", 10000)
		viper.SetDefault("logs.path", "/var/log/minio-ranger-gateway/gateway.log")
		viper.SetDefault("logs.output", "stdout")
		viper.SetDefault("logger.logLevel", "debug")
		viper.SetDefault("logger.enableSentry", false)
		viper.SetDefault("logger.sentryDSN", "")

		// Environment variables take precedence over the config file.
		// The deployment contract uses flat RANGER_*/SOLR_* names.
		bindEnvs(map[string]string{
			"server.port":           "GATEWAY_PORT",
			"ranger.host":           "RANGER_HOST",
			"ranger.user":           "RANGER_USER",
			"ranger.password":       "RANGER_PASSWORD",
			"ranger.serviceName":    "RANGER_SERVICE_NAME",
			"ranger.serviceDefName": "RANGER_SERVICEDEF_NAME",
			"ranger.cacheTTL":       "RANGER_CACHE_TTL",
			"solr.auditURL":         "SOLR_AUDIT_URL",
			"api.host":              "API_HOST",
			"ipWhitelist":           "IP_WHITELIST",
		})

		// Read the config file if present; env and defaults carry otherwise
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
				l.Info("No config file found, using defaults and environment", "path", configPath)
			} else {
				l.Warn("Failed to read config file", "path", configPath, "error", err)
			}
		} else {
			l.Info("Using config file", "path", configPath)
		}

		cfg := &Config{}
		if err := viper.Unmarshal(cfg); err != nil {
			l.Error("Failed to unmarshal config", "error", err)
			os.Exit(1)
		}

		instance = cfg
	})

	return instance
}

func bindEnvs(bindings map[string]string) {
	for key, env := range bindings {
		// viper.BindEnv only errors on an empty key
		_ = viper.BindEnv(key, env)
	}
}

// IPWhitelistEntries parses the comma-separated whitelist into trimmed entries.
func (c *Config) IPWhitelistEntries() []string {
	if c.IPWhitelist == "" {
		return nil
	}
	var entries []string
	for _, e := range strings.Split(c.IPWhitelist, ",") {
		if e = strings.TrimSpace(e); e != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

// SaveConfig persists the current configuration to the given path,
// or to the loaded config path when path is empty.
func SaveConfig(path string) error {
	if instance == nil {
		return fmt.Errorf("no configuration loaded")
	}

	if path == "" {
		path = configPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configYAML, err := yaml.Marshal(instance)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}

	if err := os.WriteFile(path, configYAML, 0644); err != nil {
		return fmt.Errorf("failed to write configuration to file: %w", err)
	}

	configPath = path

	return nil
}

// GetLoadedConfigPath returns the path of the currently loaded configuration file.
func GetLoadedConfigPath() string {
	return configPath
}

// GetConfig returns the current configuration instance.
func GetConfig() *Config {
	if instance == nil {
		return LoadConfig("")
	}
	return instance
}

func NewLoggerConfig(cfg *Config) logger.Config {
	if cfg == nil {
		return logger.Config{
			LogLevel:     "info",
			EnableSentry: false,
			SentryDSN:    "",
		}
	}

	return logger.Config{
		LogLevel:     cfg.Logger.LogLevel,
		EnableSentry: cfg.Logger.EnableSentry,
		SentryDSN:    cfg.Logger.SentryDSN,
	}
}
