// Package api provides interfaces for dependency injection
package api

// StoreOpener creates session stores.
type StoreOpener interface {
	// OpenStore opens the session store rooted at dataDir.
	OpenStore(dataDir string) (ISessionStore, error)
}

// ServerStarter defines the interface for starting the API server.
type ServerStarter interface {
	// StartServer starts the API server with the given configuration.
	StartServer(store ISessionStore, config ServerConfig) error
}

// ServerFactory creates server instances.
type ServerFactory interface {
	// CreateServerStarter creates a server starter.
	CreateServerStarter() ServerStarter
}
