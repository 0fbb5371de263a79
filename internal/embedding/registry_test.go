package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHost mimics the inference server: /models/{repo}/info,
// /models/{repo}/embed and /models/{repo}/hidden_states.
func fakeHost(t *testing.T, dim int) (*httptest.Server, *int) {
	t.Helper()
	infoCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/models/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/info"):
			infoCalls++
			_ = json.NewEncoder(w).Encode(modelInfo{RepoID: "x", Backend: "pooled", Dim: dim})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/embed"):
			var req embedRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			out := make([][]float32, len(req.Inputs))
			for i := range out {
				v := make([]float32, dim)
				v[0] = 1
				out[i] = v
			}
			_ = json.NewEncoder(w).Encode(out)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/hidden_states"):
			var req hiddenStatesRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			resp := hiddenStatesResponse{}
			for range req.Inputs {
				resp.HiddenStates = append(resp.HiddenStates, [][]float32{{2, 0}, {4, 0}})
				resp.AttentionMask = append(resp.AttentionMask, []float32{1, 1})
			}
			_ = json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &infoCalls
}

func TestRegistryLoad(t *testing.T) {
	srv, infoCalls := fakeHost(t, 768)
	reg := NewRegistry(srv.URL)
	ctx := context.Background()

	t.Run("empty repo id loads default", func(t *testing.T) {
		enc, err := reg.Load(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, DefaultModelRepoID, enc.RepoID())
		assert.Equal(t, 768, enc.Dimensions())
	})

	t.Run("cached per repo id", func(t *testing.T) {
		a, err := reg.Load(ctx, DefaultModelRepoID)
		require.NoError(t, err)
		b, err := reg.Load(ctx, DefaultModelRepoID)
		require.NoError(t, err)
		assert.Same(t, a, b)
		assert.Equal(t, 1, *infoCalls)
	})

	t.Run("rejects model outside allow-list", func(t *testing.T) {
		_, err := reg.Load(ctx, "evil/model")
		assert.ErrorIs(t, err, ErrModelNotWhitelisted)
	})

	t.Run("dispatches mean-pooling backend", func(t *testing.T) {
		enc, err := reg.Load(ctx, "cointegrated/rubert-tiny2")
		require.NoError(t, err)
		_, ok := enc.(*meanPoolEncoder)
		assert.True(t, ok)
	})

	t.Run("dispatches pooled backend", func(t *testing.T) {
		enc, err := reg.Load(ctx, "BAAI/bge-m3")
		require.NoError(t, err)
		_, ok := enc.(*pooledEncoder)
		assert.True(t, ok)
	})
}

func TestRegistryLoad_FailedLoadNotCached(t *testing.T) {
	fails := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/models/", func(w http.ResponseWriter, r *http.Request) {
		if fails == 0 {
			fails++
			http.Error(w, "model unavailable", http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(modelInfo{Dim: 312})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	reg := NewRegistry(srv.URL)
	ctx := context.Background()

	_, err := reg.Load(ctx, DefaultModelRepoID)
	require.Error(t, err)

	enc, err := reg.Load(ctx, DefaultModelRepoID)
	require.NoError(t, err)
	assert.Equal(t, 312, enc.Dimensions())
}

func TestPooledEncoderEncode(t *testing.T) {
	srv, _ := fakeHost(t, 4)
	enc := newPooledEncoder(srv.URL, DefaultModelRepoID, defaultHTTPClient())
	require.NoError(t, enc.load(context.Background()))

	vecs, err := enc.Encode(context.Background(), []string{"a", "b"}, true)
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Len(t, vecs[0], 4)
}

func TestPooledEncoderEncode_Empty(t *testing.T) {
	enc := newPooledEncoder("http://unused", DefaultModelRepoID, defaultHTTPClient())
	vecs, err := enc.Encode(context.Background(), nil, true)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestMeanPoolEncoderEncode(t *testing.T) {
	srv, _ := fakeHost(t, 2)
	enc := newMeanPoolEncoder(srv.URL, "cointegrated/rubert-tiny2", defaultHTTPClient())
	require.NoError(t, enc.load(context.Background()))

	t.Run("unnormalized pooling", func(t *testing.T) {
		vecs, err := enc.Encode(context.Background(), []string{"a"}, false)
		require.NoError(t, err)
		require.Len(t, vecs, 1)
		// Host returns tokens (2,0) and (4,0) with full attention.
		assert.InDelta(t, 3.0, float64(vecs[0][0]), 1e-6)
		assert.InDelta(t, 0.0, float64(vecs[0][1]), 1e-6)
	})

	t.Run("normalized pooling", func(t *testing.T) {
		vecs, err := enc.Encode(context.Background(), []string{"a"}, true)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, vecNorm(vecs[0]), 1e-5)
	})
}

func TestEncodeOne(t *testing.T) {
	srv, _ := fakeHost(t, 3)
	enc := newPooledEncoder(srv.URL, DefaultModelRepoID, defaultHTTPClient())
	require.NoError(t, enc.load(context.Background()))

	vec, err := EncodeOne(context.Background(), enc, "hello", true)
	require.NoError(t, err)
	assert.Len(t, vec, 3)
}

func TestSafeRepoName(t *testing.T) {
	assert.Equal(t, "intfloat__multilingual-e5-base", safeRepoName("intfloat/multilingual-e5-base"))
	assert.Equal(t, "plain", safeRepoName("plain"))
}
