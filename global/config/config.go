package config

import (
	"path/filepath"

	"github.com/caiflower/staticweb/global/env"
	"github.com/caiflower/staticweb/pkg/logger"
	"github.com/caiflower/staticweb/pkg/tools"
	servercfg "github.com/caiflower/staticweb/web/server/config"
)

const DefaultConfigFile = "default.yaml"

type DefaultConfig struct {
	LoggerConfig logger.Config     `yaml:"logger" json:"logger"`
	ServerConfig servercfg.Options `yaml:"server" json:"server"`

	// flat keys of the legacy config.json, merged into ServerConfig after loading
	RootDirectory string            `yaml:"root_directory" json:"root_directory"`
	RedirectMap   map[string]string `yaml:"redirect_map" json:"redirect_map"`
}

// LoadDefaultConfig loads $CONFIG_PATH/default.yaml.
func LoadDefaultConfig(v *DefaultConfig) error {
	return LoadConfig(filepath.Join(env.ConfigPath, DefaultConfigFile), v)
}

// LoadConfig decodes filename into v and merges the legacy keys. A relative documentRoot is taken
// relative to the directory of filename, a relative legacy root_directory relative to its parent,
// the layout the legacy config.json was read from.
func LoadConfig(filename string, v *DefaultConfig) error {
	if err := tools.LoadConfig(filename, v); err != nil {
		return err
	}
	configDir, err := filepath.Abs(filepath.Dir(filename))
	if err != nil {
		return err
	}

	if root := v.RootDirectory; root != "" {
		if !filepath.IsAbs(root) {
			root = filepath.Join(filepath.Dir(configDir), root)
		}
		v.ServerConfig.DocumentRoot = root
	}
	if len(v.RedirectMap) > 0 && v.ServerConfig.Redirects == nil {
		v.ServerConfig.Redirects = make(map[string]string, len(v.RedirectMap))
	}
	for from, to := range v.RedirectMap {
		v.ServerConfig.Redirects[from] = to
	}

	if root := v.ServerConfig.DocumentRoot; root != "" && !filepath.IsAbs(root) {
		v.ServerConfig.DocumentRoot = filepath.Join(configDir, root)
	}
	return nil
}
