package cliconfig

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML tags. Pointer fields distinguish
// "absent" from zero for booleans and numerics.
type FileConfig struct {
	Pointing    string   `toml:"pointing"`
	PointingURL string   `toml:"pointing_url"`
	Targets     string   `toml:"targets"`
	Catalog     string   `toml:"catalog"`
	Window      *float64 `toml:"window"`
	Workers     *int     `toml:"workers"`
	DB          string   `toml:"db"`
	ExportDir   string   `toml:"export_dir"`
	ExportMax   *int     `toml:"export_max"`
	Addr        string   `toml:"addr"`
	AuthToken   string   `toml:"auth_token"`
	TrustProxy  *bool    `toml:"trust_proxy"`
	Watch       *bool    `toml:"watch"`
	LogLevel    string   `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("pointing", fc.Pointing, &cfg.PointingPath)
	s.setString("pointing-url", fc.PointingURL, &cfg.PointingURL)
	s.setString("targets", fc.Targets, &cfg.TargetsPath)
	s.setString("catalog", fc.Catalog, &cfg.CatalogPath)
	s.setString("db", fc.DB, &cfg.DBPath)
	s.setString("export-dir", fc.ExportDir, &cfg.ExportDir)
	s.setString("addr", fc.Addr, &cfg.Addr)
	s.setString("auth-token", fc.AuthToken, &cfg.AuthToken)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setFloatPtr("window", fc.Window, &cfg.Window)
	s.setIntPtr("workers", fc.Workers, &cfg.Workers)
	s.setIntPtr("export-max", fc.ExportMax, &cfg.ExportMax)

	s.setBool("trust-proxy", fc.TrustProxy, &cfg.TrustProxy)
	s.setBool("watch", fc.Watch, &cfg.Watch)

	return nil
}
