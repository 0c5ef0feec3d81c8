package replicate_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvoss/hearth/internal/domain"
	"github.com/nvoss/hearth/internal/provider/replicate"
)

func newServerClient(handler http.Handler) (*httptest.Server, *replicate.Client) {
	server := httptest.NewServer(handler)
	client := replicate.NewClient(replicate.Config{
		BaseURL: server.URL,
		Token:   "tk",
		Timeout: 5,
	})
	return server, client
}

func TestClient_CreatePrediction(t *testing.T) {
	t.Run("should create a job with the fully-qualified model path", func(t *testing.T) {
		var gotPath, gotAuth string
		var gotBody map[string]any
		server, client := newServerClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"id":"p1","status":"starting","urls":{"get":"%s/predictions/p1"}}`, "http://poll.test")
		}))
		defer server.Close()

		job, err := client.CreatePrediction(context.Background(), "seedance-pro", map[string]any{"prompt": "a cat"})

		require.NoError(t, err)
		require.Equal(t, "p1", job.ID)
		require.Equal(t, domain.JobStarting, job.Status)
		require.Equal(t, "http://poll.test/predictions/p1", job.PollURL)
		require.Equal(t, "/models/bytedance/seedance-1-pro/predictions", gotPath)
		require.Equal(t, "Bearer tk", gotAuth)
		require.Equal(t, map[string]any{"prompt": "a cat"}, gotBody["input"])
	})

	t.Run("should reject an unknown model key", func(t *testing.T) {
		server, client := newServerClient(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			t.Fatal("no request expected")
		}))
		defer server.Close()

		_, err := client.CreatePrediction(context.Background(), "not-a-model", nil)

		require.Error(t, err)
	})

	t.Run("should report non-2xx create responses as upstream errors", func(t *testing.T) {
		server, client := newServerClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"detail":"invalid input"}`))
		}))
		defer server.Close()

		_, err := client.CreatePrediction(context.Background(), "imagen-4", map[string]any{})

		var upstream *domain.UpstreamError
		require.ErrorAs(t, err, &upstream)
		require.Equal(t, http.StatusUnprocessableEntity, upstream.StatusCode)
	})
}

func TestClient_FetchJob(t *testing.T) {
	t.Run("should fetch the latest snapshot from the poll URL", func(t *testing.T) {
		server, client := newServerClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/predictions/p1", r.URL.Path)
			require.Equal(t, "Bearer tk", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"p1","status":"processing"}`))
		}))
		defer server.Close()

		job, err := client.FetchJob(context.Background(), &domain.GenerationJob{
			ID:      "p1",
			PollURL: server.URL + "/predictions/p1",
			Status:  domain.JobStarting,
		})

		require.NoError(t, err)
		require.Equal(t, domain.JobProcessing, job.Status)
	})
}

func TestClient_StartAndAwait(t *testing.T) {
	t.Run("should return output when the job succeeds immediately", func(t *testing.T) {
		server, client := newServerClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"p1","status":"succeeded","output":["https://out.test/x.png"]}`))
		}))
		defer server.Close()

		output, err := client.StartAndAwait(context.Background(), "imagen-4", map[string]any{"prompt": "a cat"})

		require.NoError(t, err)
		require.Equal(t, []string{"https://out.test/x.png"}, output)
	})

	t.Run("should accept a bare string output", func(t *testing.T) {
		server, client := newServerClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"p1","status":"succeeded","output":"https://out.test/x.png"}`))
		}))
		defer server.Close()

		output, err := client.StartAndAwait(context.Background(), "imagen-4", nil)

		require.NoError(t, err)
		require.Equal(t, []string{"https://out.test/x.png"}, output)
	})

	t.Run("should report a provider failure with its message", func(t *testing.T) {
		server, client := newServerClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"p1","status":"failed","error":"prompt rejected"}`))
		}))
		defer server.Close()

		_, err := client.StartAndAwait(context.Background(), "imagen-4", nil)

		var jobFailed *domain.JobFailedError
		require.ErrorAs(t, err, &jobFailed)
		require.Contains(t, jobFailed.Error(), "prompt rejected")
	})

	t.Run("should report cancellation distinctly", func(t *testing.T) {
		server, client := newServerClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"p1","status":"canceled"}`))
		}))
		defer server.Close()

		_, err := client.StartAndAwait(context.Background(), "imagen-4", nil)

		require.ErrorIs(t, err, domain.ErrJobCanceled)
	})
}
