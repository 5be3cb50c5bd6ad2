// Package daemon wires the services together and runs them until shutdown.
package daemon

import (
	"github.com/rs/zerolog/log"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/config"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/reconcile"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/web"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/web/handler"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	components *Components
	webService *web.Service
	scheduler  *reconcile.Scheduler
}

// New creates a Daemon with every service wired.
func New(cfg *config.Config) (*Daemon, error) {
	components, err := Build(cfg)
	if err != nil {
		return nil, err
	}

	d := &Daemon{cfg: cfg, components: components}

	if cfg.Sync.Enabled {
		if d.scheduler, err = reconcile.NewScheduler(components.Runner, cfg.Sync.Schedule); err != nil {
			components.Close()
			return nil, err
		}
	}

	d.webService, err = web.New(&handler.Deps{
		Config:    cfg,
		DB:        components.DB,
		Issuer:    components.Issuer,
		Login:     components.Login,
		FullSync:  components.Runner,
		Accounts:  components.Engine,
		Directory: components.Directory,
	})
	if err != nil {
		components.Close()
		return nil, err
	}

	return d, nil
}

// Start serves until SIGINT or SIGTERM, then drains and stops every service.
func (d *Daemon) Start() error {
	defer d.components.Close()

	if d.scheduler != nil {
		go seed(d.components.DB, d.components.Runner)

		d.scheduler.Start()
		defer d.scheduler.Stop()
	}

	errc := make(chan error, 1)

	go func() {
		errc <- d.webService.Start()
	}()

	go d.webService.WaitShutdown()

	if err := <-errc; err != nil {
		log.Error().Err(err).Msg("http server stopped")
		return err
	}

	return nil
}
