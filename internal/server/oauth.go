package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/dghubble/oauth1"

	"github.com/desertthunder/solotter/internal/shared"
)

// Exchanger trades an authorized request token for an access token pair (implemented by services.Authorizer).
type Exchanger interface {
	AccessToken(requestToken, requestSecret, verifier string) (string, string, error)
}

// OAuthResult contains the result of an OAuth 1.0a authorization flow.
type OAuthResult struct {
	AccessToken  string
	AccessSecret string
	err          error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler handles the OAuth 1.0a callback Twitter redirects to after the user authorizes the app.
// Implements the Handler interface for registration with a Router.
type OAuthHandler struct {
	exchanger     Exchanger
	requestToken  string
	requestSecret string
	resultChan    chan OAuthResult
	once          sync.Once
	callbackHit   bool
	mu            sync.Mutex
}

// NewOAuthHandler creates a handler for the request token pair issued at the start of the flow.
//
// The request token doubles as the CSRF check: callbacks carrying any other token are rejected.
func NewOAuthHandler(exchanger Exchanger, requestToken, requestSecret string) *OAuthHandler {
	return &OAuthHandler{
		exchanger:     exchanger,
		requestToken:  requestToken,
		requestSecret: requestSecret,
		resultChan:    make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"GET /callback"}
}

var successPage = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f8fa; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DA1F2; margin: 0 0 1rem 0; }
        p { color: #657786; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization Successful</h1>
        <p>You can close this window and return to {{.}}.</p>
    </div>
</body>
</html>
`))

// ServeHTTP handles the OAuth callback request.
//
// Validates the returned request token, exchanges the verifier for an access token pair,
// and sends the result through the result channel.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle callback once
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	if denied := r.URL.Query().Get("denied"); denied != "" {
		h.Send(OAuthResult{err: fmt.Errorf("%w: authorization denied", shared.ErrAuthFailed)})
		http.Error(w, "Authorization denied", http.StatusForbidden)
		return
	}

	requestToken, verifier, err := oauth1.ParseAuthorizationCallback(r)
	if err != nil {
		h.Send(OAuthResult{err: fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	if requestToken != h.requestToken {
		h.Send(OAuthResult{err: fmt.Errorf("%w: request token mismatch", shared.ErrAuthFailed)})
		http.Error(w, "Invalid oauth_token parameter", http.StatusBadRequest)
		return
	}

	accessToken, accessSecret, err := h.exchanger.AccessToken(requestToken, h.requestSecret, verifier)
	if err != nil {
		h.Send(OAuthResult{err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.Send(OAuthResult{AccessToken: accessToken, AccessSecret: accessSecret})

	// The token is already delivered; a broken page only costs the browser its confirmation.
	var page bytes.Buffer
	if err := successPage.Execute(&page, "the terminal"); err != nil {
		http.Error(w, "Authorized, but the confirmation page failed to render: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	w.Write(page.Bytes())
}

// Send sends the OAuth result through the channel (only once).
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving OAuth flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}
