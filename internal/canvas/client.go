package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const perPage = 100

// Client is an authenticated Canvas REST client.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a Canvas client for the given instance base URL
// (e.g. "https://canvas.example.com") using a static access token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError is Canvas's error envelope.
type apiError struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// ListActiveCourses returns the courses the token's user is actively
// enrolled in.
func (c *Client) ListActiveCourses(ctx context.Context) ([]Course, error) {
	endpoint := fmt.Sprintf("%s/api/v1/courses?enrollment_state=active&per_page=%d", c.baseURL, perPage)

	var all []Course
	for endpoint != "" {
		var page []Course
		next, err := c.getPage(ctx, endpoint, &page)
		if err != nil {
			return nil, fmt.Errorf("listing courses: %w", err)
		}
		all = append(all, page...)
		endpoint = next
	}
	return all, nil
}

// ListAssignments returns all assignments for a course.
func (c *Client) ListAssignments(ctx context.Context, courseID int64) ([]Assignment, error) {
	endpoint := fmt.Sprintf("%s/api/v1/courses/%d/assignments?per_page=%d", c.baseURL, courseID, perPage)

	var all []Assignment
	for endpoint != "" {
		var page []Assignment
		next, err := c.getPage(ctx, endpoint, &page)
		if err != nil {
			return nil, fmt.Errorf("listing assignments for course %d: %w", courseID, err)
		}
		all = append(all, page...)
		endpoint = next
	}
	return all, nil
}

// getPage performs one authenticated GET, decodes the body into out, and
// returns the rel="next" link from the Link header ("" when on the last
// page).
func (c *Client) getPage(ctx context.Context, endpoint string, out interface{}) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("canvas request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && len(apiErr.Errors) > 0 {
			return "", fmt.Errorf("canvas API error (%d): %s", resp.StatusCode, apiErr.Errors[0].Message)
		}
		return "", fmt.Errorf("canvas API error (%d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	return nextLink(resp.Header.Get("Link")), nil
}

var linkRe = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// nextLink extracts the rel="next" URL from a Canvas Link header.
func nextLink(header string) string {
	m := linkRe.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	if _, err := url.Parse(m[1]); err != nil {
		return ""
	}
	return m[1]
}
