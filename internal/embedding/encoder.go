// Package embedding loads allow-listed embedding models from the
// inference host and encodes canonical entity text into fixed-length,
// unit-normalized vectors.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultModelRepoID is used whenever a caller does not pin a model.
const DefaultModelRepoID = "intfloat/multilingual-e5-base"

// allowedRepoIDs is the fixed allow-list of vetted models. It exists so
// a bad request cannot trigger an arbitrary model download at runtime.
var allowedRepoIDs = map[string]struct{}{
	"intfloat/multilingual-e5-small":                              {},
	"cointegrated/rubert-tiny2":                                   {},
	"sentence-transformers/paraphrase-multilingual-MiniLM-L12-v2": {},
	"ai-forever/sbert_large_nlu_ru":                               {},
	DefaultModelRepoID:                                            {},
	"BAAI/bge-m3":                                                 {},
}

var ErrModelNotWhitelisted = errors.New("model is not whitelisted for download")

// Encoder turns texts into fixed-length vectors. Implementations may
// L2-normalize the output when normalize is set.
type Encoder interface {
	Encode(ctx context.Context, texts []string, normalize bool) ([][]float32, error)
	Dimensions() int
	RepoID() string
}

// EncodeOne encodes a single text.
func EncodeOne(ctx context.Context, enc Encoder, text string, normalize bool) ([]float32, error) {
	vecs, err := enc.Encode(ctx, []string{text}, normalize)
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(vecs))
	}
	return vecs[0], nil
}

// useMeanPooling selects the backend for a repo id. rubert-tiny2 ships
// without a pooling head, so its hidden states are pooled client-side;
// every other allow-listed model produces sentence vectors natively.
func useMeanPooling(repoID string) bool {
	return strings.Contains(strings.ToLower(repoID), "cointegrated/rubert-tiny2")
}

// safeRepoName flattens a repo id into a path segment on the host.
func safeRepoName(repoID string) string {
	return strings.ReplaceAll(repoID, "/", "__")
}
