package config

const (
	// User-facing validation notice
	MsgFillAllFields = "Please fill in all fields"

	// Operator log messages for failed remote calls
	ErrFetchingPosts = "Error fetching posts"
	ErrCreatingPost  = "Error creating post"
	ErrUpdatingPost  = "Error updating post"
	ErrDeletingPost  = "Error deleting post"

	// Storage errors
	ErrInitializeDatabaseFmt = "Failed to initialize database: %v"
	ErrInitializingStore     = "Error initializing store"

	// Config errors
	ErrWriteConfigContentFmt = "Failed to write config content: %v"
	ErrCreateTempFileFmt     = "Failed to create temp file: %v"
)
