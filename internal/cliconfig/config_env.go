package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (TESSCHED_*). It respects flags that have been explicitly set (changed
// map). Returns an error if a variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("pointing", os.Getenv("TESSCHED_POINTING"), &cfg.PointingPath)
	s.setString("pointing-url", os.Getenv("TESSCHED_POINTING_URL"), &cfg.PointingURL)
	s.setString("targets", os.Getenv("TESSCHED_TARGETS"), &cfg.TargetsPath)
	s.setString("catalog", os.Getenv("TESSCHED_CATALOG"), &cfg.CatalogPath)
	s.setString("db", os.Getenv("TESSCHED_DB"), &cfg.DBPath)
	s.setString("export-dir", os.Getenv("TESSCHED_EXPORT_DIR"), &cfg.ExportDir)
	s.setString("addr", os.Getenv("TESSCHED_ADDR"), &cfg.Addr)
	s.setString("auth-token", os.Getenv("TESSCHED_AUTH_TOKEN"), &cfg.AuthToken)
	s.setString("log-level", os.Getenv("TESSCHED_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setFloatFromString("window", os.Getenv("TESSCHED_WINDOW"), &cfg.Window); err != nil {
		return err
	}
	if err := s.setIntFromString("workers", os.Getenv("TESSCHED_WORKERS"), &cfg.Workers); err != nil {
		return err
	}
	if err := s.setIntFromString("export-max", os.Getenv("TESSCHED_EXPORT_MAX"), &cfg.ExportMax); err != nil {
		return err
	}

	s.setBoolFromString("trust-proxy", os.Getenv("TESSCHED_TRUST_PROXY"), &cfg.TrustProxy)
	s.setBoolFromString("watch", os.Getenv("TESSCHED_WATCH"), &cfg.Watch)

	return nil
}
