package aichat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

const readChunkSize = 16 * 1024

// post sends body to url and streams the response into sink until the body
// ends or sink asks to stop. It returns the HTTP status code.
func post(ctx context.Context, client *http.Client, url string, body []byte, credential string, sink ChunkSink) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", ErrIO, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := withCredential(client, credential).Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: request failed: %v", ErrIO, err)
	}
	defer resp.Body.Close()

	buf := make([]byte, readChunkSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 && sink.Consume(buf[:n]) == Stop {
			return resp.StatusCode, nil
		}
		if errors.Is(err, io.EOF) {
			return resp.StatusCode, nil
		}
		if err != nil {
			return resp.StatusCode, fmt.Errorf("%w: failed to read response: %v", ErrIO, err)
		}
	}
}

// withCredential returns a client that adds "Authorization: Bearer <credential>"
// to every request. An empty credential leaves client unchanged.
func withCredential(client *http.Client, credential string) *http.Client {
	if credential == "" {
		return client
	}
	authed := *client
	authed.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: credential}),
		Base:   client.Transport,
	}
	return &authed
}
