package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/drakos74/devcluster/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// Path is where the default config file lives.
	Path      = "infra/config"
	envPrefix = "DEVCLUSTER"

	SourceFile   = "file"
	SourceBucket = "s3"

	UploadsMemory = "memory"
	UploadsFile   = "file"
	UploadsNone   = "none"

	ThemeImage    = "image"
	ThemeGradient = "gradient"
	ThemePlain    = "plain"
)

var validate = validator.New()

// Config is the configuration of the dashboard.
type Config struct {
	Server    Server       `mapstructure:"server" yaml:"server"`
	Dataset   Dataset      `mapstructure:"dataset" yaml:"dataset"`
	Model     Model        `mapstructure:"model" yaml:"model"`
	Dashboard Dashboard    `mapstructure:"dashboard" yaml:"dashboard"`
	Legend    model.Legend `mapstructure:"legend" yaml:"legend" validate:"dive"`
}

type Server struct {
	Port  int  `mapstructure:"port" yaml:"port" validate:"gte=0,lte=65535"`
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

type Dataset struct {
	// Path is the bundled dataset, empty when datasets are only uploaded.
	Path string `mapstructure:"path" yaml:"path"`
	// Uploads is where uploaded datasets are kept.
	Uploads string `mapstructure:"uploads" yaml:"uploads" validate:"oneof=memory file none"`
	Dir     string `mapstructure:"dir" yaml:"dir" validate:"required_if=Uploads file"`
}

type Model struct {
	Source string `mapstructure:"source" yaml:"source" validate:"oneof=file s3"`
	Name   string `mapstructure:"name" yaml:"name" validate:"required"`
	Dir    string `mapstructure:"dir" yaml:"dir" validate:"required_if=Source file"`
	Bucket string `mapstructure:"bucket" yaml:"bucket" validate:"required_if=Source s3"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
	Region string `mapstructure:"region" yaml:"region"`
}

type Dashboard struct {
	Title       string `mapstructure:"title" yaml:"title" validate:"required"`
	Theme       string `mapstructure:"theme" yaml:"theme" validate:"oneof=image gradient plain"`
	Background  string `mapstructure:"background" yaml:"background" validate:"omitempty,url"`
	MultiSelect bool   `mapstructure:"multi_select" yaml:"multi_select"`
	Width       int    `mapstructure:"width" yaml:"width" validate:"gte=100"`
	Height      int    `mapstructure:"height" yaml:"height" validate:"gte=100"`
	RawRows     int    `mapstructure:"raw_rows" yaml:"raw_rows" validate:"gte=0"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: Server{
			Port: 6080,
		},
		Dataset: Dataset{
			Path:    "World_development_mesurement.csv",
			Uploads: UploadsMemory,
			Dir:     "file-storage",
		},
		Model: Model{
			Source: SourceFile,
			Name:   model.DefaultName,
			Dir:    "file-storage",
		},
		Dashboard: Dashboard{
			Title:      "Global Development Clustering App",
			Theme:      ThemeImage,
			Background: "https://thumbs.dreamstime.com/b/intersection-money-global-economy-shaping-financial-landscapes-worldwide-intersection-money-global-economy-292671686.jpg",
			Width:      640,
			Height:     480,
			RawRows:    50,
		},
		Legend: model.DefaultLegend(),
	}
}

func defaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.debug", d.Server.Debug)
	v.SetDefault("dataset.path", d.Dataset.Path)
	v.SetDefault("dataset.uploads", d.Dataset.Uploads)
	v.SetDefault("dataset.dir", d.Dataset.Dir)
	v.SetDefault("model.source", d.Model.Source)
	v.SetDefault("model.name", d.Model.Name)
	v.SetDefault("model.dir", d.Model.Dir)
	v.SetDefault("model.bucket", d.Model.Bucket)
	v.SetDefault("model.prefix", d.Model.Prefix)
	v.SetDefault("model.region", d.Model.Region)
	v.SetDefault("dashboard.title", d.Dashboard.Title)
	v.SetDefault("dashboard.theme", d.Dashboard.Theme)
	v.SetDefault("dashboard.background", d.Dashboard.Background)
	v.SetDefault("dashboard.multi_select", d.Dashboard.MultiSelect)
	v.SetDefault("dashboard.width", d.Dashboard.Width)
	v.SetDefault("dashboard.height", d.Dashboard.Height)
	v.SetDefault("dashboard.raw_rows", d.Dashboard.RawRows)
}

// Load loads the configuration from the given file, the environment and the defaults.
// Precedence: env > config file > defaults.
// Without a file, the default config of the Path directory is used if present.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	defaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config '%s': %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(Path)
		v.SetConfigName("devcluster")
		if err := v.ReadInConfig(); err != nil {
			var missing viper.ConfigFileNotFoundError
			if !errors.As(err, &missing) {
				return nil, fmt.Errorf("could not read default config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	if !v.IsSet("legend") {
		c.Legend = model.DefaultLegend()
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("file", v.ConfigFileUsed()).
		Str("dataset", c.Dataset.Path).
		Str("model", c.Model.Name).
		Str("source", c.Model.Source).
		Msg("loaded config")
	return &c, nil
}

// MustLoad loads the config, panicking if it is not usable.
func MustLoad(cfgFile string) *Config {
	c, err := Load(cfgFile)
	if err != nil {
		panic(fmt.Sprintf("could not load config from '%s': %s", cfgFile, err.Error()))
	}
	return c
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			messages := make([]string, len(invalid))
			for i, e := range invalid {
				messages[i] = fmt.Sprintf("%s: failed on '%s'", e.Namespace(), e.Tag())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes the configuration as yaml to the given path.
func Save(c *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not make config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("could not marshal config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}
