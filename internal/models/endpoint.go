package models

// Endpoint is one WebDAV-accessible storage root ("drive") available to the
// user, as returned by the graph drives endpoint. Read-only from the panel.
type Endpoint struct {
	ID         string    `json:"id"`
	DriveAlias string    `json:"driveAlias"`
	DriveType  string    `json:"driveType"`
	Name       string    `json:"name"`
	Root       DriveRoot `json:"root"`
	WebURL     string    `json:"webUrl,omitempty"`
}

// DriveRoot holds the root item of a drive; its WebDavURL is the address
// used for remote access with an app token.
type DriveRoot struct {
	ETag      string `json:"eTag,omitempty"`
	ID        string `json:"id"`
	WebDavURL string `json:"webDavUrl"`
}

// Known drive types.
const (
	DriveTypePersonal = "personal"
	DriveTypeVirtual  = "virtual"
	DriveTypeProject  = "project"
)

// WebDavURL returns the remote-access address of the endpoint.
func (e Endpoint) WebDavURL() string {
	return e.Root.WebDavURL
}

// DriveList is the envelope the drives endpoint wraps its results in.
type DriveList struct {
	Value []Endpoint `json:"value"`
}
