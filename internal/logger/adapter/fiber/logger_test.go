package fiber_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/logger"
	adapter "github.com/GoLibraryAdmin/GoLibraryAdmin/internal/logger/adapter/fiber"
)

type accessLine struct {
	IP      string `json:"ip"`
	Status  int    `json:"status"`
	URI     string `json:"uri"`
	Method  string `json:"method"`
	Host    string `json:"host"`
	Error   string `json:"error"`
	Forward string `json:"forwarded_for"`
}

func newApp(cfg adapter.Config) *fiber.App {
	app := fiber.New()
	app.Use(adapter.New(cfg))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("hello")
	})
	app.Get("/checkalive", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/denied", func(*fiber.Ctx) error {
		return fiber.NewError(fiber.StatusForbidden, "no")
	})

	return app
}

func TestAccessLog(t *testing.T) {
	tests := []struct {
		name   string
		target string
		status int
		uri    string
		err    string
	}{
		{"root", "/", fiber.StatusOK, "/", ""},
		{"query kept", "/?account=alice", fiber.StatusOK, "/?account=alice", ""},
		{"not found", "/nothing", fiber.StatusNotFound, "/nothing", "Cannot GET /nothing"},
		{"handler error", "/denied", fiber.StatusForbidden, "/denied", "no"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			app := newApp(adapter.Config{Output: &buf})

			req := httptest.NewRequest(fiber.MethodGet, tt.target, nil)
			req.Header.Set(fiber.HeaderXForwardedFor, "10.0.0.7")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Performance"))

			var line accessLine
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

			assert.Equal(t, tt.status, line.Status)
			assert.Equal(t, tt.uri, line.URI)
			assert.Equal(t, fiber.MethodGet, line.Method)
			assert.Equal(t, "example.com", line.Host)
			assert.Equal(t, "10.0.0.7", line.Forward)
			assert.Equal(t, tt.err, line.Error)
		})
	}
}

func TestAccessLogSkipsCheckAlive(t *testing.T) {
	var buf bytes.Buffer

	app := newApp(adapter.Config{
		Log:           logger.Log{DisableCheckAlive: true},
		CheckAliveURI: "/checkalive",
		Output:        &buf,
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/checkalive", nil))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, buf.String())
}

func TestAccessLogNext(t *testing.T) {
	var buf bytes.Buffer

	app := newApp(adapter.Config{
		Next:   func(*fiber.Ctx) bool { return true },
		Output: &buf,
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, buf.String())
}

func TestAccessLogWithoutOutputs(t *testing.T) {
	app := newApp(adapter.Config{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
