package userstream

import (
	"os"
	"strings"

	"userstream/source/mariadb"
	"userstream/source/sqlite"
	"userstream/vars"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the entire YAML configuration
type Config struct {
	Version     string       `yaml:"version"`
	DataSources []DataSource `yaml:"datasources"`
	Runner      RunnerConfig `yaml:"runner"`
	Stream      StreamConfig `yaml:"stream"`
	Log         LogConfig    `yaml:"log"`
}

// DataSource represents a single data source configuration
type DataSource struct {
	Name   string        `yaml:"name"`
	Type   string        `yaml:"type"`
	Config ConfigDetails `yaml:"config"`
}

// RunnerConfig lists the directories holding named query files.
type RunnerConfig struct {
	Paths []string `yaml:"paths"`
}

// StreamConfig tunes the user_data streamers.
type StreamConfig struct {
	Table    string `yaml:"table"`
	PageSize int    `yaml:"page_size"`
	Sort     string `yaml:"sort"`
	// MinAge is nil when the key is absent, so an explicit 0 survives Normalize.
	MinAge *int `yaml:"min_age"`
}

// AgeThreshold returns the batch filter threshold, the default when none is configured.
func (s StreamConfig) AgeThreshold() int {

	if s.MinAge == nil {
		return vars.DefaultMinAge
	}
	return *s.MinAge

}

type LogConfig struct {
	Level string `yaml:"level"`
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// ConfigDetails contains the connection details of a data source.
// Path is only read by sqlite, the network fields only by mariadb.
type ConfigDetails struct {
	Host            string              `yaml:"host"`
	Port            int                 `yaml:"port"`
	Username        string              `yaml:"username"`
	Password        string              `yaml:"password"`
	DatabaseName    string              `yaml:"database_name"`
	Path            string              `yaml:"path"`
	Parameters      map[string][]string `yaml:"parameters"`
	ConnMaxIdleTime int                 `yaml:"conn_max_idle_time"`
	ConnMaxLifetime int                 `yaml:"conn_max_lifetime"`
	MaxOpenConns    int                 `yaml:"max_open_conns"`
	MaxIdleConns    int                 `yaml:"max_idle_conns"`
}

// LoadConfig reads the YAML file at path and applies defaults.
func LoadConfig(path string) (*Config, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}

	return ParseConfig(data)

}

// ParseConfig decodes YAML config data and applies defaults.
func ParseConfig(data []byte) (*Config, error) {

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	return &cfg, nil

}

// Normalize fills zero values with defaults and checks the data sources.
func (c *Config) Normalize() error {

	if c.Stream.Table == "" {
		c.Stream.Table = vars.DefaultTable
	}
	if c.Stream.PageSize == 0 {
		c.Stream.PageSize = vars.DefaultPagingLimit
	}
	if c.Stream.Sort == "" {
		c.Stream.Sort = vars.DefaultSort
	}
	if c.Stream.MinAge == nil {
		minAge := vars.DefaultMinAge
		c.Stream.MinAge = &minAge
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	seen := make(map[string]bool, len(c.DataSources))
	for i := range c.DataSources {
		ds := &c.DataSources[i]

		if ds.Name == "" {
			return errors.Errorf("datasource #%d has no name", i)
		}
		if seen[ds.Name] {
			return errors.Errorf("datasource %s is declared twice", ds.Name)
		}
		seen[ds.Name] = true

		ds.Type = strings.ToLower(ds.Type)
		switch ds.Type {
		case mariadb.Source:
			if ds.Config.DatabaseName == "" {
				ds.Config.DatabaseName = vars.DefaultDatabaseName
			}
			if ds.Config.Port == 0 {
				ds.Config.Port = 3306
			}
		case sqlite.Source:
			if ds.Config.Path == "" {
				return errors.Errorf("datasource %s: sqlite requires a path", ds.Name)
			}
		default:
			return errors.Errorf("datasource %s: unsupported type %q", ds.Name, ds.Type)
		}
	}

	return nil

}

// FindByName returns the data source called name.
func (c *Config) FindByName(name string) (*DataSource, error) {

	for i := range c.DataSources {
		if c.DataSources[i].Name == name {
			return &c.DataSources[i], nil
		}
	}

	return nil, errors.Wrapf(ErrDataSourceNotFound, "datasource %s", name)

}
