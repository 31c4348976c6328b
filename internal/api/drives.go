package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mschlachter/ocis-app-tokens/internal/models"
)

// SeedDrives builds the drive set the development backend serves: a personal
// drive for the user plus the virtual shares drive, with the composite ids
// and WebDAV addresses the graph endpoint uses.
func SeedDrives(publicURL, userName string) []models.Endpoint {
	base := strings.TrimRight(publicURL, "/")

	personalID := uuid.NewString() + "$" + uuid.NewString()
	sharesUUID := uuid.NewString()
	sharesID := sharesUUID + "$" + sharesUUID

	return []models.Endpoint{
		{
			ID:         sharesID,
			DriveAlias: "virtual/shares",
			DriveType:  models.DriveTypeVirtual,
			Name:       "Shares",
			Root: models.DriveRoot{
				ID:        sharesID,
				WebDavURL: base + "/dav/spaces/" + sharesID,
			},
			WebURL: base + "/f/" + sharesID,
		},
		{
			ID:         personalID,
			DriveAlias: "personal/" + strings.ToLower(userName),
			DriveType:  models.DriveTypePersonal,
			Name:       userName,
			Root: models.DriveRoot{
				ID:        personalID,
				WebDavURL: base + "/dav/spaces/" + personalID,
			},
			WebURL: base + "/f/" + personalID,
		},
	}
}
