package authclient

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"bookshelf/pkg/domain"
)

// Client calls the auth service over HTTP to validate bearer tokens.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs an auth service client with a bounded timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Verify delegates token validation to the auth service /verify endpoint and
// returns the authenticated identity.
func (c *Client) Verify(token string) (domain.Identity, error) {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/verify", nil)
	if err != nil {
		return domain.Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Identity{}, err
	}
	defer resp.Body.Close()

	var body struct {
		Valid    bool   `json:"valid"`
		UserID   string `json:"user_id"`
		Username string `json:"username"`
		Message  string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && resp.StatusCode < 400 {
		return domain.Identity{}, err
	}
	if resp.StatusCode >= 400 || !body.Valid {
		msg := body.Message
		if msg == "" {
			msg = resp.Status
		}
		return domain.Identity{}, &APIError{Status: resp.StatusCode, Message: msg}
	}
	return domain.Identity{UserID: body.UserID, Username: body.Username}, nil
}

// APIError represents an auth service error response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}
