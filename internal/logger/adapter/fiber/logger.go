// Package fiber provides an HTTP access log middleware for fiber backed by zerolog.
package fiber

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/logger"
)

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	Next func(c *fiber.Ctx) bool

	// Log selects the access log outputs: the access rotation when file logging is
	// enabled, the console when both the console and AccessLogToConsole are enabled.
	Log logger.Log

	// CheckAliveURI is not logged when Log.DisableCheckAlive is set.
	CheckAliveURI string

	// Output replaces the writers derived from Log.
	Output io.Writer
}

// New creates a fiber access logging middleware. Errors returned by the chain are
// passed to the app error handler first so the logged status is the one sent.
func New(cfg Config) fiber.Handler {
	access := zerolog.New(accessWriter(cfg)).With().Timestamp().Logger()

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if errHandler := c.App().ErrorHandler(c, chainErr); errHandler != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		elapsed := time.Since(start)
		c.Set("X-Performance", strconv.FormatFloat(elapsed.Seconds(), 'f', 6, 64))

		if cfg.Log.DisableCheckAlive && cfg.CheckAliveURI != "" && c.Path() == cfg.CheckAliveURI {
			return nil
		}

		uri := c.Path()
		if q := c.Request().URI().QueryString(); len(q) > 0 {
			uri += "?" + string(q)
		}

		event := access.Log().
			Str("ip", c.IP()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", elapsed).
			Str("uri", uri).
			Str("method", c.Method()).
			Str("host", c.Hostname()).
			Str("user_agent", c.Get(fiber.HeaderUserAgent))

		if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
			event.Str("forwarded_for", fwd)
		}

		if chainErr != nil {
			event.Err(chainErr)
		}

		event.Send()

		return nil
	}
}

func accessWriter(cfg Config) io.Writer {
	if cfg.Output != nil {
		return cfg.Output
	}

	var writers []io.Writer

	if cfg.Log.File.Enabled {
		if err := os.MkdirAll(cfg.Log.File.Path, 0o750); err != nil { //nolint:mnd
			log.Error().Err(err).Str("path", cfg.Log.File.Path).Msg("can't create log directory")
		} else {
			writers = append(writers, logger.NewRotation(cfg.Log.File.Path, cfg.Log.File.Access))
		}
	}

	if cfg.Log.Console.Enabled && cfg.Log.AccessLogToConsole {
		if cfg.Log.Console.Pretty {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{zerolog.LevelFieldName},
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	return zerolog.MultiLevelWriter(writers...)
}
