package app

import (
	"io/ioutil"
	"os"
	"strings"

	"github.com/mapsqr/maps-location-qr/location"
	"github.com/mapsqr/maps-location-qr/qr"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const defaultConfig = `# Google Maps Location QR Code Generator

################################## LOGGING ####################################

[logging]

#
# Logging verbosity level.
# Supported values: "DEBUG", "INFO", "WARN", "ERROR", "FATAL" or "PANIC".
#
level = "WARN"

################################## QR #########################################

[qr]

#
# Smallest symbol version (1-40). With fit enabled the version grows when the
# URL needs more capacity; otherwise URLs that do not fit are rejected.
#
version = 1
fit = true

#
# Error correction level.
# Supported values: "low", "medium", "high" or "highest".
#
error_correction = "low"

#
# Pixels per module and width of the quiet zone in modules.
#
module_size = 10
border = 4

################################## MAPS #######################################

[maps]

#
# Links are generated as <base_url>?q=<latitude>,<longitude>.
#
base_url = "https://www.google.com/maps"

################################## SERVER #####################################

[server]

#
# Address the browser form listens on.
#
addr = "127.0.0.1:8501"

################################## AWS ########################################

[aws]

#
# Used when the output directory is an s3://bucket/prefix location.
#
s3_profile = ""
s3_endpoint = ""
`

type Config struct {
	v *viper.Viper

	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`

	QR struct {
		Version         int    `mapstructure:"version"`
		Fit             bool   `mapstructure:"fit"`
		ErrorCorrection string `mapstructure:"error_correction"`
		ModuleSize      int    `mapstructure:"module_size"`
		Border          int    `mapstructure:"border"`
	} `mapstructure:"qr"`

	Maps struct {
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"maps"`

	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	AWS struct {
		S3Profile  string `mapstructure:"s3_profile"`
		S3Endpoint string `mapstructure:"s3_endpoint"`
	} `mapstructure:"aws"`
}

// QRConfig returns the encoder settings.
func (c Config) QRConfig() qr.Config {
	return qr.Config{
		Version:    c.QR.Version,
		Level:      c.QR.ErrorCorrection,
		ModuleSize: c.QR.ModuleSize,
		Border:     c.QR.Border,
		Fit:        c.QR.Fit,
	}
}

func (c Config) Validate() error {
	if err := c.QRConfig().Validate(); err != nil {
		return errors.Wrap(err, "qr")
	}
	if _, err := location.NewFormatter(c.Maps.BaseURL); err != nil {
		return errors.Wrap(err, "maps")
	}
	if c.Server.Addr == "" {
		return errors.New("server: addr is empty")
	}
	return nil
}

func (c Config) String() string {
	tmpfile, err := ioutil.TempFile("", "config.*.toml")
	if err != nil {
		return err.Error()
	}
	defer os.Remove(tmpfile.Name())
	defer tmpfile.Close()
	err = c.v.WriteConfigAs(tmpfile.Name())
	if err != nil {
		return err.Error()
	}
	blob, err := ioutil.ReadAll(tmpfile)
	if err != nil {
		return err.Error()
	}
	return string(blob)
}

func loadConfig(c *Config) error {
	// A .env file in the working directory feeds the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "loading .env file")
	}

	v := viper.New()

	v.SetEnvPrefix("MAPS_LOCATION_QR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("maps-location-qr")
	v.SetConfigType("toml")
	v.AddConfigPath("$HOME/.config/")
	v.AddConfigPath("/etc/maps-location-qr/")

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read our default configuration.
	if err := v.ReadConfig(strings.NewReader(defaultConfig)); err != nil {
		panic(err) // Not in the user path.
	}

	// Include configuration file provided by the user.
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return errors.Wrap(err, "configuration unmarshaling failed")
	}

	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "config did not pass validation")
	}

	c.v = v

	return nil
}
