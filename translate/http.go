package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodySize    = 4 << 20
)

// ---------------------------------------------------------------------------
// HTTP client with real proxy support
// ---------------------------------------------------------------------------

func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	// The proxy option wins over HTTP_PROXY/HTTPS_PROXY.
	if proxyURL != "" {
		if !strings.Contains(proxyURL, "://") {
			proxyURL = "http://" + proxyURL
		}
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// ---------------------------------------------------------------------------
// Shared driver plumbing
// ---------------------------------------------------------------------------

// conn is embedded by every HTTP driver.
type conn struct {
	provider string
	baseURL  string
	client   *http.Client
}

func newConn(provider, defaultBaseURL string, opts Options, timeout time.Duration) conn {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return conn{
		provider: provider,
		baseURL:  strings.TrimRight(opts.String("baseUrl", defaultBaseURL), "/"),
		client:   makeHTTPClient(opts.String("proxy", ""), opts.Duration("timeout", timeout)),
	}
}

func (c conn) fail(message, code string) error {
	return &ProviderError{Provider: c.provider, Message: message, Code: code}
}

func (c conn) wrap(message string, cause error) error {
	return &ProviderError{Provider: c.provider, Message: message, Cause: cause}
}

func (c conn) get(ctx context.Context, endpoint string, query url.Values, header http.Header, out any) error {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return c.wrap("building request", err)
	}
	return c.send(req, header, out)
}

func (c conn) postForm(ctx context.Context, endpoint string, form url.Values, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return c.wrap("building request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req, header, out)
}

func (c conn) postJSON(ctx context.Context, endpoint string, body any, header http.Header, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return c.wrap("encoding request", err)
	}
	return c.postRaw(ctx, endpoint, payload, "application/json", header, out)
}

func (c conn) postRaw(ctx context.Context, endpoint string, payload []byte, contentType string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return c.wrap("building request", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.send(req, header, out)
}

// send performs one request and decodes the JSON body into out. The body
// is decoded even for error statuses so callers can read the provider's
// own error fields; the returned error then describes the status.
func (c conn) send(req *http.Request, header http.Header, out any) error {
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return c.wrap("request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return c.wrap("reading response", err)
	}

	decodeErr := json.Unmarshal(body, out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(fmt.Sprintf("request failed with status %d: %s", resp.StatusCode, truncate(string(body), 200)), strconv.Itoa(resp.StatusCode))
	}
	if decodeErr != nil {
		return c.wrap("invalid response", decodeErr)
	}
	return nil
}

func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}

// flexString decodes a JSON string or number into a string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
