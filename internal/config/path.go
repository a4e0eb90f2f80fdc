package config

const (
	// Routes of the development posts server. The collection name matches RemoteConfig's default.
	PostsURLPath = "/posts"
	PostURLPath  = PostsURLPath + "/{id}"

	DefaultConfigPath = "config.yaml"
	ExampleConfigPath = "config.example.yaml"
)
