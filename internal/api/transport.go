package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/oleastore/storefront/internal/logging"
)

// TokenSource is the session store as the transport sees it. Only the
// transport reads tokens directly; everything else goes through the store.
type TokenSource interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(token string) error
	// Invalidate tears the session down after a failed refresh and moves
	// the user back to the sign-in entry point.
	Invalidate()
}

// refreshTransport attaches the bearer token to every request and, on a 401
// that has not been retried yet, performs a single refresh-and-replay.
// The retry accounting is local to one RoundTrip call, so concurrent
// requests never share retry state.
type refreshTransport struct {
	base       http.RoundTripper
	tokens     TokenSource
	refreshURL string
	refresh    *http.Client
}

func newRefreshTransport(tokens TokenSource, refreshURL string) *refreshTransport {
	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:          200,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &refreshTransport{
		base:       base,
		tokens:     tokens,
		refreshURL: refreshURL,
		refresh:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *refreshTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	first := req.Clone(req.Context())
	if tok := t.tokens.AccessToken(); tok != "" {
		first.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := t.base.RoundTrip(first)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	l := logging.FromContext(req.Context()).With("transport", "refresh")

	refreshToken := t.tokens.RefreshToken()
	if refreshToken == "" {
		// Nothing to refresh with: the original failure stands.
		return resp, nil
	}

	access, rerr := t.exchange(req.Context(), refreshToken)
	if rerr != nil {
		l.Warn("refresh_failed", "error", rerr)
		t.tokens.Invalidate()
		return resp, nil
	}
	if err := t.tokens.SetAccessToken(access); err != nil {
		l.Error("token_store_failed", "error", err)
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, berr := req.GetBody()
		if berr != nil {
			return nil, berr
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+access)

	l.Info("token_refreshed")
	return t.base.RoundTrip(retry)
}

// exchange trades the refresh token for a new access token. It deliberately
// bypasses the authenticated client so a refresh can never recurse.
func (t *refreshTransport) exchange(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.refresh.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh rejected: status %d", resp.StatusCode)
	}

	var out struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("refresh response: %w", err)
	}
	if out.Access == "" {
		return "", fmt.Errorf("refresh response: empty access token")
	}
	return out.Access, nil
}
