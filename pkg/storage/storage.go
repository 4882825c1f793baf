// Package storage persists decoded sessions in a pebble database so that
// the API and query layers can serve them without re-decoding the log.
//
// Layout: each session gets a KSUID. Key "m/<id>" holds the session
// metadata, key "d/<id>/<stream>" holds the samples of one stream. Stream
// keys for a session share a common prefix, so listing and deleting a
// session map onto pebble prefix scans and range deletes.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/cougar-robotics/cougarlog/pkg/session"
)

// ErrSessionNotFound indicates the requested session id is not in the
// store.
var ErrSessionNotFound = fmt.Errorf("session not found")

// SessionMeta is the stored description of one decoded session.
type SessionMeta struct {
	ID           string               `json:"id"`
	Source       string               `json:"source"`
	Version      uint16               `json:"version"`
	ExtraHeader  string               `json:"extra_header,omitempty"`
	RecordCount  int                  `json:"record_count"`
	SampleCount  int                  `json:"sample_count"`
	Truncated    bool                 `json:"truncated"`
	DecodeErrors []string             `json:"decode_errors,omitempty"`
	Streams      []session.StreamInfo `json:"streams"`
	CreatedAt    time.Time            `json:"created_at"`
}

// storedSample carries one sample of a stream. The value type travels with
// every sample because a stream id can be redeclared with a different type
// mid-log, and systemTime streams store rendered strings.
type storedSample struct {
	Timestamp float64         `json:"t"`
	Type      string          `json:"type"`
	Value     json.RawMessage `json:"v"`
}

// SessionStore is a pebble-backed store of decoded sessions.
type SessionStore struct {
	db *pebble.DB
}

// Open opens (creating if needed) the session store at path.
func Open(path string) (*SessionStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &SessionStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}

func metaKey(id string) []byte {
	return []byte("m/" + id)
}

func streamKey(id, stream string) []byte {
	return []byte("d/" + id + "/" + stream)
}

func streamPrefix(id string) []byte {
	return []byte("d/" + id + "/")
}

// prefixUpperBound returns the smallest key greater than every key with
// the given prefix.
func prefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// Put persists a decoded session under a fresh KSUID and returns its
// metadata. Source names the log the session came from.
func (s *SessionStore) Put(source string, sess *session.Session) (*SessionMeta, error) {
	id := ksuid.New().String()

	meta := &SessionMeta{
		ID:          id,
		Source:      source,
		Version:     sess.Version,
		ExtraHeader: sess.ExtraHeader,
		RecordCount: sess.RecordCount,
		SampleCount: len(sess.Samples),
		Truncated:   sess.Truncated(),
		Streams:     sess.Streams,
		CreatedAt:   time.Now().UTC(),
	}
	for _, err := range sess.Errors {
		meta.DecodeErrors = append(meta.DecodeErrors, err.Error())
	}

	// Group samples by stream name, preserving log order within each.
	byStream := make(map[string][]storedSample)
	order := make([]string, 0)
	for _, sample := range sess.Samples {
		raw, err := json.Marshal(sample.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal sample value: %w", err)
		}
		if _, ok := byStream[sample.Name]; !ok {
			order = append(order, sample.Name)
		}
		byStream[sample.Name] = append(byStream[sample.Name], storedSample{
			Timestamp: sample.Timestamp,
			Type:      sample.Value.Type.String(),
			Value:     raw,
		})
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	metaData, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal session meta: %w", err)
	}
	if err := batch.Set(metaKey(id), metaData, nil); err != nil {
		return nil, err
	}
	for _, name := range order {
		data, err := json.Marshal(byStream[name])
		if err != nil {
			return nil, fmt.Errorf("marshal stream %q: %w", name, err)
		}
		if err := batch.Set(streamKey(id, name), data, nil); err != nil {
			return nil, err
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, fmt.Errorf("commit session: %w", err)
	}

	return meta, nil
}

// Get returns the metadata of one stored session.
func (s *SessionStore) Get(id string) (*SessionMeta, error) {
	if _, err := ksuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", id, err)
	}
	data, closer, err := s.db.Get(metaKey(id))
	if err == pebble.ErrNotFound {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var meta SessionMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal session meta: %w", err)
	}
	return &meta, nil
}

// List returns the metadata of every stored session.
func (s *SessionStore) List() ([]SessionMeta, error) {
	prefix := []byte("m/")
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []SessionMeta
	for iter.First(); iter.Valid(); iter.Next() {
		var meta SessionMeta
		if err := json.Unmarshal(iter.Value(), &meta); err != nil {
			return nil, fmt.Errorf("unmarshal session meta: %w", err)
		}
		out = append(out, meta)
	}
	return out, iter.Error()
}

// Delete removes a session's metadata and samples.
func (s *SessionStore) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	batch := s.db.NewBatch()
	defer batch.Close()

	if err := batch.Delete(metaKey(id), nil); err != nil {
		return err
	}
	prefix := streamPrefix(id)
	if err := batch.DeleteRange(prefix, prefixUpperBound(prefix), nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

// AllSamples returns every sample of a session across all streams, merged
// into timestamp order. This reproduces the interleaving of the original
// log closely enough for exports; ties keep stream-key order.
func (s *SessionStore) AllSamples(id string) ([]session.Sample, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	prefix := streamPrefix(id)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []session.Sample
	for iter.First(); iter.Valid(); iter.Next() {
		stream := string(iter.Key()[len(prefix):])
		var stored []storedSample
		if err := json.Unmarshal(iter.Value(), &stored); err != nil {
			return nil, fmt.Errorf("unmarshal stream %q: %w", stream, err)
		}
		for _, ss := range stored {
			value, err := decodeStoredValue(ss.Type, ss.Value)
			if err != nil {
				return nil, fmt.Errorf("stream %q: %w", stream, err)
			}
			out = append(out, session.Sample{Timestamp: ss.Timestamp, Name: stream, Value: value})
		}
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out, nil
}

// Samples returns the stored samples of one stream of a session, in log
// order.
func (s *SessionStore) Samples(id, stream string) ([]session.Sample, error) {
	data, closer, err := s.db.Get(streamKey(id, stream))
	if err == pebble.ErrNotFound {
		// Distinguish a missing session from a session without this
		// stream; both return empty but the former is an error.
		if _, metaErr := s.Get(id); metaErr != nil {
			return nil, metaErr
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var stored []storedSample
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal stream %q: %w", stream, err)
	}

	out := make([]session.Sample, 0, len(stored))
	for _, ss := range stored {
		value, err := decodeStoredValue(ss.Type, ss.Value)
		if err != nil {
			return nil, fmt.Errorf("stream %q: %w", stream, err)
		}
		out = append(out, session.Sample{Timestamp: ss.Timestamp, Name: stream, Value: value})
	}
	return out, nil
}
