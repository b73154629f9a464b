package handler

const (
	// RootPath is the root path of a route group.
	RootPath = "/"

	// SessionCookieName is the cookie carrying the session ID.
	SessionCookieName = "session"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
