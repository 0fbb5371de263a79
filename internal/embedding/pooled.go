package embedding

import (
	"context"
	"fmt"
	"net/http"
)

// pooledEncoder talks to a sentence-embedding model on the inference
// host: one pooled fixed-length vector per input text, with optional
// server-side L2 normalization.
type pooledEncoder struct {
	repoID   string
	modelURL string
	dims     int
	httpc    *http.Client
}

func newPooledEncoder(hostURL, repoID string, httpc *http.Client) *pooledEncoder {
	return &pooledEncoder{
		repoID:   repoID,
		modelURL: hostURL + "/models/" + safeRepoName(repoID),
		httpc:    httpc,
	}
}

func (e *pooledEncoder) load(ctx context.Context) error {
	info, err := fetchModelInfo(ctx, e.httpc, e.modelURL)
	if err != nil {
		return fmt.Errorf("load %s: %w", e.repoID, err)
	}
	e.dims = info.Dim
	return nil
}

func (e *pooledEncoder) RepoID() string  { return e.repoID }
func (e *pooledEncoder) Dimensions() int { return e.dims }

type embedRequest struct {
	Inputs    []string `json:"inputs"`
	Normalize bool     `json:"normalize"`
	Truncate  bool     `json:"truncate"`
}

func (e *pooledEncoder) Encode(ctx context.Context, texts []string, normalize bool) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var vecs [][]float32
	err := postJSON(ctx, e.httpc, e.modelURL+"/embed", embedRequest{
		Inputs:    texts,
		Normalize: normalize,
		Truncate:  true,
	}, &vecs)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embed count mismatch: sent %d texts, got %d vectors", len(texts), len(vecs))
	}
	return vecs, nil
}
