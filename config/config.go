package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/viant/houlog/host"
	"github.com/viant/houlog/internal/logging"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Export targets.
const (
	TargetFile = "file"
	TargetLive = "live"
)

// Config describes how a recorder is constructed.
type Config struct {
	// Target is TargetFile or TargetLive.
	Target string `json:"target" yaml:"target"`
	// Path is the container file written by file exports.
	Path string `json:"path" yaml:"path"`
	// Address is the live host address.
	Address       string `json:"address" yaml:"address"`
	ContainerPath string `json:"containerPath" yaml:"containerPath"`
	NodeName      string `json:"nodeName" yaml:"nodeName"`
	LogLevel      string `json:"logLevel" yaml:"logLevel"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Target:        TargetFile,
		Path:          "houlog.hlog",
		Address:       host.DefaultAddress,
		ContainerPath: host.DefaultContainerPath,
		NodeName:      host.DefaultNodeName,
		LogLevel:      "info",
	}
}

// Load reads configuration from a JSON or YAML file (by extension) on top of
// the defaults. If path is empty, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "config: read")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	default:
		err = json.Unmarshal(b, &cfg)
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: decode %s", path)
	}
	return cfg, nil
}

// Validate checks that cfg can construct a recorder.
func (c Config) Validate() error {
	switch c.Target {
	case TargetFile:
		if c.Path == "" {
			return errors.New("config: file target requires a path")
		}
	case TargetLive:
		if c.Address == "" {
			return errors.New("config: live target requires an address")
		}
		if !strings.HasPrefix(c.ContainerPath, "/") && c.ContainerPath != "" {
			return errors.Newf("config: container path %q is not absolute", c.ContainerPath)
		}
		if strings.Contains(c.NodeName, "/") {
			return errors.Newf("config: invalid node name %q", c.NodeName)
		}
	default:
		return errors.Newf("config: unknown target %q", c.Target)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
