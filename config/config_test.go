package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Target != TargetFile {
		t.Fatalf("default target: %q", cfg.Target)
	}
	if cfg.Address != "127.0.0.1:9090" {
		t.Fatalf("default address: %q", cfg.Address)
	}
	if cfg.ContainerPath != "/obj/recordings" || cfg.NodeName != "recording" {
		t.Fatalf("default node: %q %q", cfg.ContainerPath, cfg.NodeName)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "houlog.json")
	data := []byte(`{"target":"live","address":"10.0.0.2:9090","nodeName":"run1"}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Target != TargetLive || cfg.Address != "10.0.0.2:9090" || cfg.NodeName != "run1" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.ContainerPath != "/obj/recordings" {
		t.Fatalf("expected default container path, got %q", cfg.ContainerPath)
	}
}

func TestLoadYAML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "houlog.yaml")
	data := []byte("target: file\npath: /tmp/out.hlog\nlogLevel: debug\n")
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Path != "/tmp/out.hlog" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	file := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(file, []byte("{"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(file); err == nil {
		t.Fatalf("expected decode error")
	}
	cfg, err := Load("")
	if err != nil || cfg != Default() {
		t.Fatalf("empty path should return defaults: %+v %v", cfg, err)
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("HOULOG_TARGET", "live")
	t.Setenv("HOULOG_ADDRESS", "localhost:7000")
	t.Setenv("HOULOG_NODE_NAME", "frames")
	t.Setenv("HOULOG_LOG_LEVEL", "warn")
	FromEnv(&cfg)
	if cfg.Target != TargetLive || cfg.Address != "localhost:7000" {
		t.Fatalf("env override: %+v", cfg)
	}
	if cfg.NodeName != "frames" || cfg.LogLevel != "warn" {
		t.Fatalf("env override: %+v", cfg)
	}
	if cfg.Path != "houlog.hlog" {
		t.Fatalf("unset variables must keep values: %q", cfg.Path)
	}
}

func TestValidate(t *testing.T) {
	var testCases = []struct {
		description string
		mutate      func(*Config)
		valid       bool
	}{
		{description: "default", mutate: func(*Config) {}, valid: true},
		{description: "unknown target", mutate: func(c *Config) { c.Target = "tcp" }},
		{description: "file without path", mutate: func(c *Config) { c.Path = "" }},
		{description: "live without address", mutate: func(c *Config) { c.Target = TargetLive; c.Address = "" }},
		{description: "relative container", mutate: func(c *Config) { c.Target = TargetLive; c.ContainerPath = "obj/x" }},
		{description: "node with slash", mutate: func(c *Config) { c.Target = TargetLive; c.NodeName = "a/b" }},
		{description: "bad level", mutate: func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, testCase := range testCases {
		cfg := Default()
		testCase.mutate(&cfg)
		err := cfg.Validate()
		if testCase.valid && err != nil {
			t.Fatalf("%s: unexpected error: %v", testCase.description, err)
		}
		if !testCase.valid && err == nil {
			t.Fatalf("%s: expected error", testCase.description)
		}
	}
}
