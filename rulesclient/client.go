// Package rulesclient is a small JSON client for the plugin resource API.
//
// It plays the part of the host's backend service: an authenticated GET
// against a resource path that decodes the JSON body into a caller-supplied
// value.
package rulesclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "rulesclient")

// maxErrorBody caps how much of a failed response is copied into the error.
const maxErrorBody = 4096

// Client performs GET requests against a backend base URL.
type Client struct {
	BaseURL string
	// Token, when set, is sent as a bearer token.
	Token string
	HTTP  *http.Client
}

// New returns a Client for baseURL using http.DefaultClient.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    http.DefaultClient,
	}
}

// Get fetches path and decodes the JSON body into out.
//
// Network failures and non-2xx responses are returned as *TransportError,
// undecodable bodies, or bodies with anything after the first JSON value, as
// *ShapeError.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return errors.Wrapf(err, "building request for %s", path)
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	log.WithField("url", req.URL.String()).Debug("GET")
	resp, err := httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransportError{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(body)),
		}
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		return &ShapeError{Reason: err.Error()}
	}
	// The body must hold exactly one JSON value.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return &ShapeError{Reason: "unexpected data after JSON value"}
	}
	return nil
}
