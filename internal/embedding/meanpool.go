package embedding

import (
	"context"
	"fmt"
	"net/http"
)

// maskClampFloor keeps the pooling divisor strictly positive when an
// attention mask sums to zero.
const maskClampFloor = 1e-9

// meanPoolEncoder is the backend for models without a pooling head. It
// fetches token-level hidden states plus the attention mask from the
// inference host and reduces them to one vector per text by
// mask-weighted mean pooling, client-side.
type meanPoolEncoder struct {
	repoID   string
	modelURL string
	dims     int
	httpc    *http.Client
}

func newMeanPoolEncoder(hostURL, repoID string, httpc *http.Client) *meanPoolEncoder {
	return &meanPoolEncoder{
		repoID:   repoID,
		modelURL: hostURL + "/models/" + safeRepoName(repoID),
		httpc:    httpc,
	}
}

func (e *meanPoolEncoder) load(ctx context.Context) error {
	info, err := fetchModelInfo(ctx, e.httpc, e.modelURL)
	if err != nil {
		return fmt.Errorf("load %s: %w", e.repoID, err)
	}
	e.dims = info.Dim
	return nil
}

func (e *meanPoolEncoder) RepoID() string  { return e.repoID }
func (e *meanPoolEncoder) Dimensions() int { return e.dims }

type hiddenStatesRequest struct {
	Inputs   []string `json:"inputs"`
	Truncate bool     `json:"truncate"`
}

type hiddenStatesResponse struct {
	// HiddenStates is batch x tokens x dim.
	HiddenStates [][][]float32 `json:"hidden_states"`
	// AttentionMask is batch x tokens; padded positions are 0.
	AttentionMask [][]float32 `json:"attention_mask"`
}

func (e *meanPoolEncoder) Encode(ctx context.Context, texts []string, normalize bool) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var resp hiddenStatesResponse
	err := postJSON(ctx, e.httpc, e.modelURL+"/hidden_states", hiddenStatesRequest{
		Inputs:   texts,
		Truncate: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.HiddenStates) != len(texts) {
		return nil, fmt.Errorf("hidden states count mismatch: sent %d texts, got %d", len(texts), len(resp.HiddenStates))
	}

	out := make([][]float32, len(resp.HiddenStates))
	for i, tokens := range resp.HiddenStates {
		var mask []float32
		if i < len(resp.AttentionMask) {
			mask = resp.AttentionMask[i]
		}
		vec := meanPool(tokens, mask)
		if normalize {
			vec = L2Normalize(vec)
		}
		out[i] = vec
	}
	return out, nil
}

// meanPool reduces token vectors to one vector: sum of token vectors
// weighted by the attention mask, divided by the clamped mask sum. A
// nil mask treats every token as attended.
func meanPool(tokens [][]float32, mask []float32) []float32 {
	if len(tokens) == 0 {
		return []float32{}
	}
	dim := len(tokens[0])
	sum := make([]float64, dim)
	var maskSum float64
	for t, tok := range tokens {
		w := 1.0
		if mask != nil {
			if t < len(mask) {
				w = float64(mask[t])
			} else {
				w = 0
			}
		}
		maskSum += w
		if w == 0 {
			continue
		}
		for d := 0; d < dim && d < len(tok); d++ {
			sum[d] += w * float64(tok[d])
		}
	}
	if maskSum < maskClampFloor {
		maskSum = maskClampFloor
	}
	out := make([]float32, dim)
	for d := range sum {
		out[d] = float32(sum[d] / maskSum)
	}
	return out
}
