package embedding

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// loadable is implemented by both backends; load pulls model metadata
// (and forces the host's weight download) before the encoder is cached.
type loadable interface {
	Encoder
	load(ctx context.Context) error
}

// Registry caches loaded encoders for the process lifetime, keyed by
// repo id. The allow-listed model set is small and bounded, so there is
// no eviction.
type Registry struct {
	hostURL string
	httpc   *http.Client

	mu     sync.Mutex
	models map[string]Encoder
}

func NewRegistry(hostURL string) *Registry {
	return &Registry{
		hostURL: hostURL,
		httpc:   defaultHTTPClient(),
		models:  map[string]Encoder{},
	}
}

// Load returns the cached encoder for repoID, loading it lazily on
// first use. Repo ids outside the allow-list fail with
// ErrModelNotWhitelisted. A failed load is not cached; the next call
// retries.
func (r *Registry) Load(ctx context.Context, repoID string) (Encoder, error) {
	if repoID == "" {
		repoID = DefaultModelRepoID
	}
	if _, ok := allowedRepoIDs[repoID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotWhitelisted, repoID)
	}

	r.mu.Lock()
	if enc, ok := r.models[repoID]; ok {
		r.mu.Unlock()
		return enc, nil
	}
	r.mu.Unlock()

	// Load outside the lock; a concurrent duplicate load is wasteful
	// but harmless, the last writer wins.
	var enc loadable
	if useMeanPooling(repoID) {
		enc = newMeanPoolEncoder(r.hostURL, repoID, r.httpc)
	} else {
		enc = newPooledEncoder(r.hostURL, repoID, r.httpc)
	}
	if err := enc.load(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.models[repoID] = enc
	r.mu.Unlock()
	return enc, nil
}
