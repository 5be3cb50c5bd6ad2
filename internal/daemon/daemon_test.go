package daemon

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/config"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/controller/identity"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/directory"
)

// closedPort returns a local port nothing listens on.
func closedPort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	return port
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		DevMode:   true,
		DB:        config.DB{GormEngine: "sqlite", Name: ":memory:"},
		Webserver: config.Webserver{Port: 8080, URL: "http://localhost:8080", ShutDownTime: 1},
		Directory: config.Directory{
			Host:              "127.0.0.1",
			Port:              closedPort(t),
			BaseDN:            "DC=example,DC=local",
			Domain:            "example.local",
			AdminUser:         "svc-library",
			AdminPassword:     "secret",
			ProbeTimeout:      200 * time.Millisecond,
			DiscoveryCooldown: time.Minute,
		},
		Token: config.Token{TTL: time.Hour},
		Sync:  config.Sync{Enabled: true, Schedule: "@every 1h"},
	}
}

func TestDirectoryConfig(t *testing.T) {
	got, err := DirectoryConfig(config.Directory{
		Host:       "dc1.example.local",
		UseSSL:     true,
		BaseDN:     "DC=example,DC=local",
		AdminUser:  "svc",
		Candidates: []string{"dc2.example.local", "10.0.0.11:3269"},
		PageSize:   250,
	})
	require.NoError(t, err)

	assert.Equal(t, 636, got.Port)
	assert.Equal(t, "svc", got.AdminPrincipal)
	assert.Equal(t, uint32(250), got.PageSize)
	assert.Equal(t, []directory.Endpoint{
		{Host: "dc2.example.local", Port: 636},
		{Host: "10.0.0.11", Port: 3269},
	}, got.Candidates)

	_, err = DirectoryConfig(config.Directory{Candidates: []string{" "}})
	require.Error(t, err)
}

func TestBuildWithUnreachableDirectory(t *testing.T) {
	c, err := Build(testConfig(t))
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.Issuer)
	assert.Equal(t, time.Hour, c.Issuer.TTL())
	assert.False(t, c.Directory.Status().Reachable)

	// the runner reports the outage and nothing is stored
	_, err = c.Runner.Run()
	require.ErrorIs(t, err, directory.ErrConnectivity)

	seed(c.DB, c.Runner)

	list, err := identity.List(c.DB)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBuildRequiresSecretOutsideDevMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.DevMode = false

	_, err := Build(cfg)
	require.Error(t, err)

	cfg.Token.Secret = "0123456789abcdef"

	c, err := Build(cfg)
	require.NoError(t, err)
	c.Close()
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(nil)
	require.Error(t, err)

	cfg := testConfig(t)
	cfg.DB.GormEngine = "oracle"
	_, err = Build(cfg)
	require.Error(t, err)

	cfg = testConfig(t)
	cfg.Directory.BindFormats = []string{"kerberos"}
	_, err = Build(cfg)
	require.ErrorIs(t, err, directory.ErrUnknownBindFormat)
}

func TestNew(t *testing.T) {
	d, err := New(testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, d.webService)
	require.NotNil(t, d.scheduler)

	cfg := testConfig(t)
	cfg.Sync.Schedule = "whenever"
	_, err = New(cfg)
	require.Error(t, err)

	cfg = testConfig(t)
	cfg.Sync.Enabled = false
	d, err = New(cfg)
	require.NoError(t, err)
	assert.Nil(t, d.scheduler)
}
