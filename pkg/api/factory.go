// Package api provides factory implementations for dependency injection
package api

import (
	"path/filepath"

	"github.com/cougar-robotics/cougarlog/pkg/storage"
)

// DefaultServerFactory is the default implementation of ServerFactory.
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory.
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter.
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter.
type DefaultServerStarter struct{}

// StartServer starts the API server with the given configuration.
func (s *DefaultServerStarter) StartServer(store ISessionStore, config ServerConfig) error {
	return StartServer(store, config)
}

// DefaultStoreOpener opens pebble-backed session stores.
type DefaultStoreOpener struct{}

// NewStoreOpener creates a new store opener.
func NewStoreOpener() StoreOpener {
	return &DefaultStoreOpener{}
}

// OpenStore opens the session store under dataDir.
func (o *DefaultStoreOpener) OpenStore(dataDir string) (ISessionStore, error) {
	return storage.Open(filepath.Join(dataDir, "sessions"))
}
