// Package config loads tapcpd's YAML configuration file: a struct with
// yaml tags, a DefaultPath helper, and a Load that tolerates a missing
// file by returning defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds every setting tapcpd's cmd/tapcpd binary needs to start a
// server: the TFTP listen address, which catalog backend to use, and the
// optional metrics/help-banner extras.
type Config struct {
	// Listen is the UDP address the TFTP engine binds, e.g. ":69".
	Listen string `yaml:"listen"`

	// Catalog selects the catalog.Source backend: "memory" or "etcd".
	Catalog CatalogConfig `yaml:"catalog"`

	// HelpBannerPath, if set, overrides codec.HelpBanner with the file's
	// contents at startup. Empty means use the compiled-in banner.
	HelpBannerPath string `yaml:"help_banner_path"`

	// Metrics configures the optional Prometheus-text endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// FPGA/CPU describe the two address spaces membus.FPGA/membus.CPU serve.
	FPGA MemRegionConfig `yaml:"fpga"`
	CPU  MemRegionConfig `yaml:"cpu"`
}

// CatalogConfig selects and parameterizes a catalog.Source.
type CatalogConfig struct {
	// Backend is "memory" or "etcd".
	Backend string `yaml:"backend"`
	// File is the path to a packed catalog blob, used when Backend is
	// "memory".
	File string `yaml:"file"`
	// EtcdEndpoints and Key configure an etcd-backed catalog.Source, used
	// when Backend is "etcd".
	EtcdEndpoints []string `yaml:"etcd_endpoints"`
	Key           string   `yaml:"key"`
}

// MetricsConfig configures the Prometheus-text endpoint. Listen == ""
// disables it.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// MemRegionConfig describes one address space's base and size in bytes.
type MemRegionConfig struct {
	Base uint32 `yaml:"base"`
	Size uint32 `yaml:"size"`
}

// DefaultPath returns /etc/tapcpd/config.yaml if that file exists, and
// otherwise ~/.tapcpd/config.yaml (./.tapcpd/config.yaml when the home
// directory cannot be determined).
func DefaultPath() string {
	if _, err := os.Stat("/etc/tapcpd/config.yaml"); err == nil {
		return "/etc/tapcpd/config.yaml"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".tapcpd", "config.yaml")
	}
	return filepath.Join(home, ".tapcpd", "config.yaml")
}

// Default returns the configuration a fresh, unconfigured tapcpd uses: an
// in-memory empty catalog, TFTP on the standard port, and metrics
// disabled.
func Default() *Config {
	return &Config{
		Listen: ":69",
		Catalog: CatalogConfig{
			Backend: "memory",
		},
		FPGA: MemRegionConfig{Base: 0, Size: 1 << 20},
		CPU:  MemRegionConfig{Base: 0, Size: 1 << 24},
	}
}

// Load reads path as YAML over Default's values. A missing file is not an
// error: it returns the defaults, since a first run has no config file
// yet.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Catalog.Backend == "" {
		cfg.Catalog.Backend = "memory"
	}
	return cfg, nil
}
