package daemon

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/auth"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/config"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/directory"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/rbac"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/reconcile"
)

const redisPingTimeout = 2 * time.Second

// Components are the wired services shared by the daemon and the one-shot commands.
type Components struct {
	DB        *gorm.DB
	Directory *directory.Client
	Engine    *reconcile.Engine
	Runner    *reconcile.Runner
	Issuer    *auth.Issuer
	Login     *auth.Service

	redis *redis.Client
}

// Build opens the database and the optional redis store and wires every service.
// An unreachable directory is not an error here.
func Build(cfg *config.Config) (*Components, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	store, err := db.Open(cfg.DB)
	if err != nil {
		return nil, err
	}

	c := &Components{DB: store}

	var opts []directory.Option

	if cfg.Redis.Addr != "" {
		c.redis = newRedis(cfg.Redis)
		opts = append(opts, directory.WithHintStore(directory.NewRedisHints(c.redis)))
	}

	dirCfg, err := DirectoryConfig(cfg.Directory)
	if err != nil {
		c.Close()
		return nil, err
	}

	if c.Directory, err = directory.NewClient(dirCfg, opts...); err != nil {
		c.Close()
		return nil, errors.Wrap(err, "failed to create directory client")
	}

	resolver := rbac.NewResolver(rbac.GroupRules{
		Admin:     cfg.Directory.Groups.Admin,
		Librarian: cfg.Directory.Groups.Librarian,
		Staff:     cfg.Directory.Groups.Staff,
	})

	c.Engine = reconcile.NewEngine(store, c.Directory, resolver)
	c.Runner = reconcile.NewRunner(c.Engine, store)

	if c.Issuer, err = newIssuer(cfg); err != nil {
		c.Close()
		return nil, err
	}

	c.Login = auth.NewService(c.Directory, c.Engine, c.Issuer, store)

	return c, nil
}

// Close releases the redis client. The database pool is left to process exit.
func (c *Components) Close() {
	if c.redis == nil {
		return
	}

	if err := c.redis.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close redis client")
	}
}

// DirectoryConfig converts the directory section into a client configuration.
// Candidates without a port inherit the configured one.
func DirectoryConfig(d config.Directory) (directory.Config, error) {
	port := d.Port
	if port == 0 {
		port = 389
		if d.UseSSL {
			port = 636
		}
	}

	candidates := make([]directory.Endpoint, 0, len(d.Candidates))

	for _, raw := range d.Candidates {
		ep, err := directory.ParseEndpoint(raw, port)
		if err != nil {
			return directory.Config{}, errors.Wrapf(err, "invalid directory candidate %q", raw)
		}

		candidates = append(candidates, ep)
	}

	return directory.Config{
		Host:              d.Host,
		Port:              port,
		UseSSL:            d.UseSSL,
		UseTLS:            d.UseTLS,
		SkipVerify:        d.SkipVerify,
		BaseDN:            d.BaseDN,
		Domain:            d.Domain,
		NetBIOS:           d.NetBIOS,
		AdminPrincipal:    d.AdminUser,
		AdminPassword:     d.AdminPassword,
		BindFormats:       d.BindFormats,
		UserBindFormat:    d.UserBindFormat,
		Candidates:        candidates,
		ProbeTimeout:      d.ProbeTimeout,
		DiscoveryCooldown: d.DiscoveryCooldown,
		Timeout:           d.Timeout,
		PageSize:          d.PageSize,
	}, nil
}

func newIssuer(cfg *config.Config) (*auth.Issuer, error) {
	secret := cfg.Token.Secret

	if secret == "" && cfg.DevMode {
		generated, err := auth.GenerateSecret()
		if err != nil {
			return nil, err
		}

		log.Warn().Msg("dev mode: using a random token secret, tokens will not survive a restart")

		secret = generated
	}

	var opts []auth.IssuerOption
	if cfg.Token.Issuer != "" {
		opts = append(opts, auth.WithIssuerName(cfg.Token.Issuer))
	}

	issuer, err := auth.NewIssuer(secret, cfg.Token.TTL, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create token issuer")
	}

	return issuer, nil
}

// newRedis creates the client for shared directory hints. A failed ping is only logged
// since every hint has a local fallback.
func newRedis(cfg config.Redis) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis not reachable, directory hints stay local")
	}

	return rdb
}
