package pollinations_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvoss/hearth/internal/domain"
	"github.com/nvoss/hearth/internal/provider/pollinations"
)

func newTestClient(baseURL string) *pollinations.Client {
	return pollinations.NewClient(pollinations.Config{
		BaseURL: baseURL,
		Timeout: 5,
		APIKey:  "ik",
	})
}

func TestClient_Generate(t *testing.T) {
	t.Run("should send pixel dimensions for image models", func(t *testing.T) {
		var gotQuery url.Values
		var gotPrompt string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			gotPrompt = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"imageUrl":"https://img.test/cat.png"}`))
		}))
		defer server.Close()

		result, err := newTestClient(server.URL).Generate(context.Background(), &domain.MediaRequest{
			Prompt: "a cat",
			Model:  "flux",
			Width:  512,
			Height: 768,
			Seed:   42,
		})

		require.NoError(t, err)
		require.Equal(t, "https://img.test/cat.png", result.URL)
		require.Equal(t, "/prompt/a cat", gotPrompt)
		require.Equal(t, "512", gotQuery.Get("width"))
		require.Equal(t, "768", gotQuery.Get("height"))
		require.Equal(t, "42", gotQuery.Get("seed"))
		require.Equal(t, "true", gotQuery.Get("nologo"))
		require.Empty(t, gotQuery.Get("aspectRatio"))
		require.Empty(t, gotQuery.Get("duration"))
	})

	t.Run("should never send pixel dimensions for video models", func(t *testing.T) {
		var gotQuery url.Values
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"output":["https://vid.test/cat.mp4"]}`))
		}))
		defer server.Close()

		result, err := newTestClient(server.URL).Generate(context.Background(), &domain.MediaRequest{
			Prompt:      "a cat",
			Model:       "seedance-pro",
			Width:       512, // must be ignored for video
			Height:      512,
			AspectRatio: "9:16",
			Duration:    8,
			Audio:       true,
		})

		require.NoError(t, err)
		require.Equal(t, "https://vid.test/cat.mp4", result.URL)
		require.Empty(t, gotQuery.Get("width"))
		require.Empty(t, gotQuery.Get("height"))
		require.Equal(t, "9:16", gotQuery.Get("aspectRatio"))
		require.Equal(t, "8", gotQuery.Get("duration"))
		require.Equal(t, "true", gotQuery.Get("audio"))
	})

	t.Run("should default image dimensions to 1024", func(t *testing.T) {
		var gotQuery url.Values
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"imageUrl":"https://img.test/x.png"}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Generate(context.Background(), &domain.MediaRequest{
			Prompt: "a cat",
			Model:  "flux",
		})

		require.NoError(t, err)
		require.Equal(t, "1024", gotQuery.Get("width"))
		require.Equal(t, "1024", gotQuery.Get("height"))
	})

	t.Run("should use the final URL for non-JSON responses", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 0x50, 0x4e, 0x47})
		}))
		defer server.Close()

		result, err := newTestClient(server.URL).Generate(context.Background(), &domain.MediaRequest{
			Prompt: "a cat",
			Model:  "flux",
		})

		require.NoError(t, err)
		require.Contains(t, result.URL, server.URL)
	})

	t.Run("should surface an embedded error over data fields", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"imageUrl":"https://img.test/x.png","error":{"message":"model offline"}}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Generate(context.Background(), &domain.MediaRequest{
			Prompt: "a cat",
			Model:  "flux",
		})

		var upstream *domain.UpstreamError
		require.ErrorAs(t, err, &upstream)
		require.Equal(t, "model offline", upstream.Message)
	})

	t.Run("should report non-2xx statuses as upstream errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream busy"))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Generate(context.Background(), &domain.MediaRequest{
			Prompt: "a cat",
			Model:  "flux",
		})

		var upstream *domain.UpstreamError
		require.ErrorAs(t, err, &upstream)
		require.Equal(t, http.StatusBadGateway, upstream.StatusCode)
	})

	t.Run("should join reference images into one parameter", func(t *testing.T) {
		var gotQuery url.Values
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"imageUrl":"https://img.test/x.png"}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Generate(context.Background(), &domain.MediaRequest{
			Prompt:          "a cat",
			Model:           "flux-kontext",
			ReferenceImages: []string{"https://a.test/1.png", "https://a.test/2.png"},
		})

		require.NoError(t, err)
		require.Equal(t, "https://a.test/1.png,https://a.test/2.png", gotQuery.Get("image"))
	})
}
