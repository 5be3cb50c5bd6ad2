package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrTokenSecretEmpty error if no token secret is configured outside dev mode.
	ErrTokenSecretEmpty = errors.New("toml config token.secret can not be empty unless devMode is set")

	// ErrSSLAndTLS error if both ldaps and StartTLS are requested.
	ErrSSLAndTLS = errors.New("toml config directory.useSSL and directory.useTLS are mutually exclusive")
)
