package config

const (
	HCType       = "Content-Type"
	HAccept      = "Accept"
	HETag        = "ETag"
	HUserAgent   = "User-Agent"
	HRequestID   = "X-Request-Id"
	HIfNoneMatch = "If-None-Match"

	CTypeJSON = "application/json"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
	HTTPErrPostNotFound     = "Post not found"
	HTTPErrInvalidPost      = "Invalid post payload"
	HTTPErrStorage          = "Storage error"
)
