package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// UpstreamConfig points at the remote admin REST service. No timeout or
// retry policy is layered on top of the transport default.
type UpstreamConfig struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// CacheConfig controls the query cache: entry TTL and the background sweep
// interval, both in seconds.
type CacheConfig struct {
	TTL           int `yaml:"ttl" json:"ttl"`
	SweepInterval int `yaml:"sweep_interval" json:"sweep_interval"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system" json:"system"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Upstream UpstreamConfig `yaml:"upstream" json:"upstream"`
	Logger   LoggerConfig   `yaml:"logger" json:"logger"`
	Cache    CacheConfig    `yaml:"cache" json:"cache"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "VendorAdmin",
		Location: "Asia/Kolkata",
		Workdir:  "/var/vendoradmin",
		Debug:    true,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1816,
	},
	Upstream: UpstreamConfig{
		BaseURL: "https://apiabhiproject.lytortech.com/api/admin",
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/vendoradmin/vendoradmin.log",
	},
	Cache: CacheConfig{
		TTL:           30,
		SweepInterval: 300,
	},
}

func setEnvValue(name string, val *string) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue := os.Getenv(name); evalue != "" {
		if p, err := strconv.Atoi(evalue); err == nil {
			*val = p
		}
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

// LoadConfig reads the yaml config file when present, then applies
// VENDORADMIN_* environment overrides on top.
func LoadConfig(cfile string) *AppConfig {
	// copy so env overrides never touch the shared defaults
	defaults := *DefaultAppConfig
	cfg := &defaults
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			fcfg := new(AppConfig)
			if err := yaml.Unmarshal(data, fcfg); err == nil {
				cfg = fcfg
			}
		}
	}

	setEnvValue("VENDORADMIN_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("VENDORADMIN_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("VENDORADMIN_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("VENDORADMIN_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("VENDORADMIN_WEB_PORT", &cfg.Web.Port)

	setEnvValue("VENDORADMIN_UPSTREAM_BASE_URL", &cfg.Upstream.BaseURL)

	setEnvValue("VENDORADMIN_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("VENDORADMIN_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("VENDORADMIN_LOGGER_FILENAME", &cfg.Logger.Filename)

	setEnvIntValue("VENDORADMIN_CACHE_TTL", &cfg.Cache.TTL)
	setEnvIntValue("VENDORADMIN_CACHE_SWEEP_INTERVAL", &cfg.Cache.SweepInterval)

	return cfg
}
