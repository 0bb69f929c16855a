package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "FRAMEPREP"

// SetDefaults registers every key of Default so env vars and flags can bind to them.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("input.path", d.Input.Path)
	v.SetDefault("source.backend", d.Source.Backend)
	v.SetDefault("sampling.target_fps", d.Sampling.TargetFPS)
	v.SetDefault("sampling.default_fps", d.Sampling.DefaultFPS)
	v.SetDefault("enhance.width", d.Enhance.Width)
	v.SetDefault("enhance.height", d.Enhance.Height)
	v.SetDefault("enhance.clip_limit", d.Enhance.ClipLimit)
	v.SetDefault("enhance.tile_grid", d.Enhance.TileGrid)
	v.SetDefault("output.interim_root", d.Output.InterimRoot)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.jpeg_quality", d.Output.JPEGQuality)
	v.SetDefault("output.progress_every", d.Output.ProgressEvery)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("monitor.port", d.Monitor.Port)
}

// Load reads config.toml (optional unless file is given), FRAMEPREP_* env vars and
// whatever was bound on v beforehand, then validates the result.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config") // name of config file (without extension)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config file")
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}
