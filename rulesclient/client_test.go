package rulesclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	var seenAuth, seenAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		seenAccept = r.Header.Get("Accept")
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"message": "ok"}`))
		case "/broken":
			http.Error(w, "kaboom", http.StatusInternalServerError)
		case "/garbage":
			w.Write([]byte(`{"message": `))
		case "/trailing":
			w.Write([]byte(`{"message": "ok"} this is not json`))
		case "/two-values":
			w.Write([]byte(`{"message": "ok"}` + "\n" + `{"message": null}`))
		case "/trailing-space":
			w.Write([]byte(`{"message": "ok"}` + "\n\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	c := New(ts.URL+"/", "s3cret")

	var out struct {
		Message string `json:"message"`
	}
	require.NoError(t, c.Get(context.Background(), "/ok", &out))
	assert.Equal(t, "ok", out.Message)
	assert.Equal(t, "Bearer s3cret", seenAuth)
	assert.Equal(t, "application/json", seenAccept)

	err := c.Get(context.Background(), "/broken", &out)
	var terr *TransportError
	require.True(t, errors.As(err, &terr), "expected TransportError, got %T", err)
	assert.Equal(t, http.StatusInternalServerError, terr.Status)
	assert.Equal(t, "kaboom", terr.Message)
	assert.Equal(t, "500 Internal Server Error: kaboom", err.Error())

	for _, path := range []string{"/garbage", "/trailing", "/two-values"} {
		err = c.Get(context.Background(), path, &out)
		var serr *ShapeError
		require.True(t, errors.As(err, &serr), "%s: expected ShapeError, got %T", path, err)
	}

	require.NoError(t, c.Get(context.Background(), "/trailing-space", &out))
}

func TestGetWithoutToken(t *testing.T) {
	var seenAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	var out map[string]interface{}
	require.NoError(t, New(ts.URL, "").Get(context.Background(), "/", &out))
	assert.Empty(t, seenAuth)
}

func TestGetUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	var out map[string]interface{}
	err := New(url, "").Get(context.Background(), "/anything", &out)
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Zero(t, terr.Status)
	assert.NotEmpty(t, err.Error())
}

func TestTransportErrorMessages(t *testing.T) {
	cases := []struct {
		err      *TransportError
		expected string
	}{
		{&TransportError{Status: 404}, "404 Not Found"},
		{&TransportError{Status: 502, Message: "upstream"}, "502 Bad Gateway: upstream"},
		{&TransportError{}, "request failed"},
		{&TransportError{Err: errors.New("dial tcp: refused")}, "request failed: dial tcp: refused"},
	}

	for ix, td := range cases {
		assert.Equal(t, td.expected, td.err.Error(), "case #%d", ix)
	}
}
