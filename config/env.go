package config

import "os"

// FromEnv overlays HOULOG_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("HOULOG_TARGET"); v != "" {
		cfg.Target = v
	}
	if v := os.Getenv("HOULOG_PATH"); v != "" {
		cfg.Path = v
	}
	if v := os.Getenv("HOULOG_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v := os.Getenv("HOULOG_CONTAINER_PATH"); v != "" {
		cfg.ContainerPath = v
	}
	if v := os.Getenv("HOULOG_NODE_NAME"); v != "" {
		cfg.NodeName = v
	}
	if v := os.Getenv("HOULOG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
