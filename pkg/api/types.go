package api

import (
	"github.com/cougar-robotics/cougarlog/pkg/analysis"
	"github.com/cougar-robotics/cougarlog/pkg/session"
	"github.com/cougar-robotics/cougarlog/pkg/storage"
)

// APIResponse represents a standard API response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Port    int
	Bind    string
	APIKey  string
	DataDir string
}

// ISessionStore defines the interface for the decoded-session store.
type ISessionStore interface {
	Put(source string, sess *session.Session) (*storage.SessionMeta, error)
	Get(id string) (*storage.SessionMeta, error)
	List() ([]storage.SessionMeta, error)
	Delete(id string) error
	Samples(id, stream string) ([]session.Sample, error)
	AllSamples(id string) ([]session.Sample, error)
	Close() error
}

// UploadResponse is returned after a log has been decoded and stored.
type UploadResponse struct {
	Session *storage.SessionMeta `json:"session"`
}

// StatsResponse carries the statistics of one stream over a time range.
type StatsResponse struct {
	Stream           string           `json:"stream"`
	Summary          analysis.Summary `json:"summary"`
	FirstDerivative  []analysis.Point `json:"first_derivative,omitempty"`
	SecondDerivative []analysis.Point `json:"second_derivative,omitempty"`
}
