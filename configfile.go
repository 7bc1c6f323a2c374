package idlc

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// projectDefaults mirrors the subset of CompilerConfig a committed
// idlc.yaml may seed, so a repository can pin its namespace wrapper and
// module name once instead of repeating them on every invocation.
type projectDefaults struct {
	ModuleName   string   `yaml:"module_name"`
	Namespaces   []string `yaml:"namespaces"`
	IncludePaths []string `yaml:"include_paths"`
}

// LoadProjectDefaults reads a yaml document (typically idlc.yaml) and
// applies any values it sets to cfg, without overriding values already set
// explicitly on the command line.
func LoadProjectDefaults(cfg *CompilerConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var defaults projectDefaults
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return err
	}

	if cfg.ModuleName == "" {
		cfg.ModuleName = defaults.ModuleName
	}
	if len(cfg.Namespaces) == 0 {
		cfg.Namespaces = defaults.Namespaces
	}
	cfg.IncludePaths = append(cfg.IncludePaths, defaults.IncludePaths...)
	return nil
}

// LoadEnvDefines layers macro defines from a `.env`-style file on top of
// cfg.Defines, without overriding a define already set via -D. This lets a
// CI pipeline park zone-specific defines (e.g. ZONE_NAME=host) outside the
// command line.
func LoadEnvDefines(cfg *CompilerConfig, path string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for k, v := range env {
		if _, exists := cfg.Defines[k]; !exists {
			cfg.Defines[k] = v
		}
	}
	return nil
}
