package client

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	// maxBodyBytes caps what we read from an upstream response
	maxBodyBytes = 32 << 20
)

// CreateHTTPClient creates an HTTP client, routed through proxyURL when it parses
func CreateHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
		ForceAttemptHTTP2:   true,
		// we ask for gzip ourselves and decode in ReadResponseBody
		DisableCompression: true,
	}

	if proxyURL != "" {
		if proxy, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxy)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// JSONHeaders returns the headers for a JSON API call identifying the application
func JSONHeaders(userAgent string) http.Header {
	headers := http.Header{}
	headers.Set("Accept", "application/json")
	headers.Set("Accept-Encoding", "gzip")
	if userAgent != "" {
		headers.Set("User-Agent", userAgent)
		// hh.ru rejects requests without its own agent header
		headers.Set("HH-User-Agent", userAgent)
	}
	return headers
}

// ReadResponseBody reads the response body, handling gzip compression if necessary
func ReadResponseBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return io.ReadAll(io.LimitReader(reader, maxBodyBytes))
}

// Excerpt shortens an upstream body for error messages
func Excerpt(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
