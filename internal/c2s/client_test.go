package c2s

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyServer counts requests and kills the connection for the first
// failures attempts, simulating a transport failure rather than an
// HTTP error.
func flakyServer(t *testing.T, failures int32, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n <= failures {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testClient(srv *httptest.Server) *Client {
	return NewClient(srv.URL, 5*time.Second, nil)
}

func TestFeedRetriesTransportFailures(t *testing.T) {
	srv, calls := flakyServer(t, 2, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/c2s/feed", r.URL.Path)
		w.Write([]byte(`{"results":[{"global_id":"p1"}]}`))
	})

	resp, err := testClient(srv).Feed(context.Background())

	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "p1", resp.Results[0].GlobalID)
	assert.EqualValues(t, 3, atomic.LoadInt32(calls))
}

func TestFeedGivesUpAfterRetries(t *testing.T) {
	srv, calls := flakyServer(t, 10, nil)

	_, err := testClient(srv).Feed(context.Background())

	require.Error(t, err)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
	assert.EqualValues(t, 1+extraAttempts, atomic.LoadInt32(calls))
}

func TestLikeRetriedWithBodyResent(t *testing.T) {
	var lastBody atomic.Value
	srv, calls := flakyServer(t, 1, func(w http.ResponseWriter, r *http.Request) {
		buf, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		lastBody.Store(string(buf))
		w.WriteHeader(http.StatusOK)
	})

	err := testClient(srv).Like(context.Background(), "p1")

	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
	assert.JSONEq(t, `{"article_id":"p1"}`, lastBody.Load().(string))
}

func TestAnnounceNeverRetried(t *testing.T) {
	srv, calls := flakyServer(t, 10, nil)

	err := testClient(srv).Announce(context.Background(), "p1")

	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestCreateArticleNeverRetried(t *testing.T) {
	srv, calls := flakyServer(t, 10, nil)

	err := testClient(srv).CreateArticle(context.Background(), NewArticle{Title: "t", Body: "b"})

	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestStatusErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := testClient(srv).Feed(context.Background())

	require.Error(t, err)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	// A delivered response is final even on a retryable call.
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestSearchQueryEncoding(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Write([]byte(`{"posts":[],"users":[]}`))
	}))
	t.Cleanup(srv.Close)

	_, err := testClient(srv).Search(context.Background(), "a b")

	require.NoError(t, err)
	assert.Equal(t, "query=%22a%20b%22", rawQuery)
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := testClient(srv).WithToken("secret")
	err := client.Like(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.NotEmpty(t, got.Get("X-Request-Id"))
}

func TestWithTokenLeavesOriginalAnonymous(t *testing.T) {
	client := NewClient("http://example.test", time.Second, nil)

	authed := client.WithToken("secret")

	assert.Empty(t, client.Token)
	assert.Equal(t, "secret", authed.Token)
}

func TestNullBodyLeavesZeroValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	}))
	t.Cleanup(srv.Close)

	resp, err := testClient(srv).Feed(context.Background())

	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Empty(t, resp.ShareResults)
}

func TestLoginSendsCredentialsAsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/c2s/login", r.URL.Path)
		assert.Equal(t, "ada", r.URL.Query().Get("handle"))
		assert.Equal(t, "p w", r.URL.Query().Get("password"))
		w.Write([]byte(`{"user_id":"u1","handle":"ada","token":"tok"}`))
	}))
	t.Cleanup(srv.Close)

	sess, err := testClient(srv).Login(context.Background(), "ada", "p w")

	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, "u1", sess.UserID)
}

func TestCancelledContextStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv, calls := flakyServer(t, 10, nil)
	cancel()

	_, err := testClient(srv).Feed(ctx)

	require.Error(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(calls), int32(1))
}

func TestValidationErrorsNeverTouchNetwork(t *testing.T) {
	srv, calls := flakyServer(t, 0, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	client := testClient(srv)
	ctx := context.Background()

	assert.Error(t, client.Like(ctx, ""))
	assert.Error(t, client.Announce(ctx, ""))
	assert.Error(t, client.Follow(ctx, "", "bob"))
	_, err := client.Search(ctx, "")
	assert.Error(t, err)

	assert.EqualValues(t, 0, atomic.LoadInt32(calls))
}
