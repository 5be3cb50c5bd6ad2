// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// FileName is the name of the main config file inside the config directory.
	FileName = "main.toml"

	// EnvJSON holds a JSON document merged over the config file.
	EnvJSON = "GO_LIBRARY_ADMIN_CONFIG_JSON"

	// EnvPrefix prefixes environment variables overriding single keys,
	// e.g. GO_LIBRARY_ADMIN_DIRECTORY_ADMINPASSWORD.
	EnvPrefix = "GO_LIBRARY_ADMIN"

	redacted = "******"
)

var validate = validator.New()

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var c Config

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(filepath.Join(path, FileName))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if JSONConfigEnv := os.Getenv(EnvJSON); JSONConfigEnv != "" {
		v.SetConfigType("json")

		if err := v.MergeConfig(strings.NewReader(JSONConfigEnv)); err != nil {
			return Config{}, errors.Wrap(err, "failed to merge config from "+EnvJSON)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	return c, Validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("devMode", false)
	v.SetDefault("webserver.shutDownTime", 5) //nolint:mnd
	v.SetDefault("webserver.bodyLimit", 1<<20) //nolint:mnd
	v.SetDefault("log.level", "info")
	v.SetDefault("log.serviceName", "go-library-admin")
	v.SetDefault("db.gormEngine", "mysql")
	v.SetDefault("directory.bindFormats", []string{"upn", "dn", "short", "netbios"})
	v.SetDefault("directory.userBindFormat", "upn")
	v.SetDefault("directory.probeTimeout", "3s")
	v.SetDefault("directory.discoveryCooldown", "5m")
	v.SetDefault("directory.timeout", "30s")
	v.SetDefault("directory.pageSize", 500) //nolint:mnd
	v.SetDefault("token.ttl", "8h")
	v.SetDefault("token.issuer", "go-library-admin")
	v.SetDefault("sync.schedule", "@every 1h")
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer

	enc := toml.NewEncoder(&buffer)
	enc.SetIndentTables(true)

	if err := enc.Encode(c); err != nil {
		return "", errors.Wrap(err, "failed to encode config as toml")
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", errors.Wrap(err, "failed to encode config as json")
	}

	return buffer.String(), nil
}

// Redacted returns a copy of c with every password and secret masked, for dumps and logs.
func (c Config) Redacted() Config {
	mask := func(s *string) {
		if *s != "" {
			*s = redacted
		}
	}

	mask(&c.DB.Password)
	mask(&c.Directory.AdminPassword)
	mask(&c.Token.Secret)
	mask(&c.Redis.Password)

	return c
}

// Validate checks the struct constraints and the cross field rules, and fills in
// the web server shutdown delay.
func Validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Directory.UseSSL && c.Directory.UseTLS {
		return errors.Wrap(ErrSSLAndTLS, invalidErrMessage)
	}

	if c.Token.Secret == "" && !c.DevMode {
		return errors.Wrap(ErrTokenSecretEmpty, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	return nil
}
