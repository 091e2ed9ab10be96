// Package config wires defaults, the optional config file, .env and FRAME_BRIDGE_* variables into viper.
package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Name is used for the config file name and the env prefix.
const Name = "frame-bridge"

// EnvKeyReplacer maps config keys onto env variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// Setup loads .env, registers defaults and env bindings and reads the config
// file when one is present in dir. A missing .env or config file is not an error.
func Setup(fs afero.Fs, dir string) error {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("Config: .env file not loaded: %v", err)
	}

	viper.SetConfigName(Name)
	viper.SetConfigType("toml")
	viper.SetFs(fs)
	if dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix(strings.ReplaceAll(Name, "-", "_"))
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	viper.AutomaticEnv()

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	logrus.Debugf("Config: loaded %s", viper.ConfigFileUsed())
	return nil
}
