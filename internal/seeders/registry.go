// Package seeders holds the concrete routines, one per table, that populate
// the platform database.
package seeders

import (
	"github.com/Lumos-Labs-HQ/ecoseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

// All returns every routine. The runner orders them by dependency.
func All(cat *catalog.Catalog) []seeder.Routine {
	return []seeder.Routine{
		NewLanguages(cat),
		NewTimezones(cat),
		NewVenueTypes(cat),
		NewCarbonEquivalences(cat),
		NewAchievements(cat),
		NewBadges(cat),
		NewPlantSpecies(cat),
		NewMediaOutlets(cat),
		NewUsers(),
		NewCooperatives(cat),
		NewCooperativeMembers(),
		NewVenues(cat),
		NewUserSettings(),
		NewAPIKeys(),
		NewActivityFeeds(),
		NewUserAchievements(),
		NewUserBadges(),
		NewPlantings(),
		NewCarbonFootprints(),
		NewUserLists(),
		NewListItems(),
	}
}
