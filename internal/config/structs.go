package config

import (
	"time"

	"github.com/materialdesk/materialdesk/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode    bool // enable dev mode for development
	DB         DB
	Log        logger.Log
	Title      string
	Webserver  Webserver
	Media      Media
	Pagination Pagination
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Media holds file storage settings for uploaded material files.
type Media struct {
	Root      string // filesystem root for stored files
	BaseURL   string // public url prefix files are served under
	UploadDir string // subdirectory for material uploads
	ChunkSize int    // copy buffer size in bytes when streaming uploads
}

// Pagination holds listing page settings.
type Pagination struct {
	PageLimit int // default page size for list endpoints
}
