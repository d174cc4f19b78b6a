package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themeflex/internal/config"
)

const twoProducts = `[
	{"id":1,"title":"Backpack","price":109.95,"description":"d1","category":"men's clothing","image":"https://example.com/1.jpg","rating":{"rate":3.9,"count":120}},
	{"id":2,"title":"T-Shirt","price":22.3,"description":"d2","category":"men's clothing","image":"https://example.com/2.jpg","rating":{"rate":4.1,"count":259}}
]`

func testCatalogConfig(endpoint string) config.CatalogConfig {
	return config.CatalogConfig{
		Endpoint:         endpoint,
		Timeout:          5 * time.Second,
		CircuitThreshold: 5,
		CircuitTimeout:   time.Minute,
	}
}

func TestClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.URL.RawQuery)
		assert.Contains(t, r.Header.Get("User-Agent"), "themeflex/")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twoProducts))
	}))
	defer server.Close()

	products, err := NewClient(testCatalogConfig(server.URL)).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, "Backpack", products[0].Title)
	assert.Equal(t, 2, products[1].ID)
	assert.Equal(t, 259, products[1].Rating.Count)
}

func TestClient_FetchCustomUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "showcase/2", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cfg := testCatalogConfig(server.URL)
	cfg.UserAgent = "showcase/2"
	products, err := NewClient(cfg).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)
}

func TestClient_FetchFailures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"not":"an array"`))
			},
		},
		{
			name: "object instead of array",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"id":1}`))
			},
		},
		{
			name: "service unavailable",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			products, err := NewClient(testCatalogConfig(server.URL)).Fetch(context.Background())
			require.Error(t, err)
			assert.Nil(t, products)

			var fe *FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, "Failed to fetch products", fe.Message())
			assert.Equal(t, tt.wantStatus, fe.StatusCode)
		})
	}
}

func TestClient_FetchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(testCatalogConfig(url)).Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, FailureMessage, MessageFor(err))
}

func TestMessageFor(t *testing.T) {
	assert.Equal(t, FailureMessage, MessageFor(&FetchError{StatusCode: 500}))
	assert.Equal(t, FailureMessage, MessageFor(errors.New("anything")))
}

func TestFetchError_Error(t *testing.T) {
	assert.Equal(t, "fetching products: unexpected status 502", (&FetchError{StatusCode: 502}).Error())

	cause := errors.New("dial tcp: refused")
	err := &FetchError{Err: cause}
	assert.Contains(t, err.Error(), "dial tcp: refused")
	assert.ErrorIs(t, err, cause)
}
