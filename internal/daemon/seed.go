package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/models"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/reconcile"
)

// seed runs a first full sync when the identity store is empty, so the service does not
// wait for the first scheduled run before identities exist.
func seed(db *gorm.DB, runner *reconcile.Runner) {
	var count int64

	if err := db.Model(&models.Identity{}).Count(&count).Error; err != nil {
		log.Error().Err(err).Msg("failed to count identities")
		return
	}

	if count > 0 {
		return
	}

	log.Info().Msg("identity store is empty, running initial directory sync")

	if _, err := runner.Run(); err != nil {
		log.Warn().Err(err).Msg("initial directory sync failed")
	}
}
