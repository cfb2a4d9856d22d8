package repositories

import "github.com/regpulse/dataschema/internal/entities"

// Page trims versions fetched with limit+1 rows down to limit and returns the
// cursor of the next page, empty when versions held no extra row
func Page(versions []*entities.SchemaVersion, limit int) ([]*entities.SchemaVersion, string) {
	if len(versions) <= limit {
		return versions, ""
	}
	versions = versions[:limit]
	return versions, versions[limit-1].Version
}
