package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com"
	apiVersion     = "2022-06-28"
	queryPageSize  = 100
)

// Client is an authenticated Notion REST client scoped to one assignment
// database.
type Client struct {
	baseURL    string
	token      string
	databaseID string
	client     *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API host, used by tests.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// NewClient creates a Notion client for the given integration token and
// database.
func NewClient(token, databaseID string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		databaseID: databaseID,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type queryRequest struct {
	Filter      interface{} `json:"filter,omitempty"`
	StartCursor string      `json:"start_cursor,omitempty"`
	PageSize    int         `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results    []page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// QueryTasks returns every assignment row in the database, following
// pagination cursors until exhausted.
func (c *Client) QueryTasks(ctx context.Context) ([]Task, error) {
	filter := map[string]interface{}{
		"property": propType,
		"select":   map[string]string{"equals": typeAssignment},
	}

	var all []Task
	cursor := ""
	for {
		req := queryRequest{Filter: filter, PageSize: queryPageSize, StartCursor: cursor}

		var resp queryResponse
		endpoint := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, c.databaseID)
		if err := c.do(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
			return nil, fmt.Errorf("querying tasks: %w", err)
		}

		for i := range resp.Results {
			all = append(all, resp.Results[i].toTask())
		}

		if !resp.HasMore || resp.NextCursor == nil {
			return all, nil
		}
		cursor = *resp.NextCursor
	}
}

// CreateTask creates a new database row for the task. The Type select is
// stamped so the row is found by later queries. Returns the task with the
// store-assigned page id filled in.
func (c *Client) CreateTask(ctx context.Context, t Task) (Task, error) {
	props := taskProperties(t)
	props[propDone] = map[string]interface{}{"checkbox": t.Done}

	body := map[string]interface{}{
		"parent":     map[string]string{"database_id": c.databaseID},
		"properties": props,
	}

	var created page
	endpoint := fmt.Sprintf("%s/v1/pages", c.baseURL)
	if err := c.do(ctx, http.MethodPost, endpoint, body, &created); err != nil {
		return Task{}, fmt.Errorf("creating task %q: %w", t.Name, err)
	}

	t.PageID = created.ID
	return t, nil
}

// UpdateTask rewrites the assignment-derived properties of an existing
// row. The Done checkbox is deliberately left untouched; it belongs to
// the user.
func (c *Client) UpdateTask(ctx context.Context, pageID string, t Task) error {
	body := map[string]interface{}{"properties": taskProperties(t)}

	endpoint := fmt.Sprintf("%s/v1/pages/%s", c.baseURL, pageID)
	if err := c.do(ctx, http.MethodPatch, endpoint, body, nil); err != nil {
		return fmt.Errorf("updating task %s: %w", pageID, err)
	}
	return nil
}

// UpdateUrgency patches only the Urgency select of a row.
func (c *Client) UpdateUrgency(ctx context.Context, pageID, urgency string) error {
	body := map[string]interface{}{
		"properties": map[string]interface{}{
			propUrgency: map[string]interface{}{
				"select": map[string]string{"name": urgency},
			},
		},
	}

	endpoint := fmt.Sprintf("%s/v1/pages/%s", c.baseURL, pageID)
	if err := c.do(ctx, http.MethodPatch, endpoint, body, nil); err != nil {
		return fmt.Errorf("updating urgency of %s: %w", pageID, err)
	}
	return nil
}

// AppendNote creates a standalone page in the database carrying generated
// text (weekly plan, daily update). Type distinguishes it from assignment
// rows so it never matches task queries.
func (c *Client) AppendNote(ctx context.Context, title, noteType, content string) error {
	body := map[string]interface{}{
		"parent": map[string]string{"database_id": c.databaseID},
		"properties": map[string]interface{}{
			propName: map[string]interface{}{
				"title": []map[string]interface{}{textPart(title)},
			},
			propType: map[string]interface{}{
				"select": map[string]string{"name": noteType},
			},
		},
		"children": noteBlocks(content),
	}

	endpoint := fmt.Sprintf("%s/v1/pages", c.baseURL)
	if err := c.do(ctx, http.MethodPost, endpoint, body, nil); err != nil {
		return fmt.Errorf("appending %s note: %w", noteType, err)
	}
	return nil
}

// taskProperties builds the property payload shared by create and update.
// Done is excluded; create adds it separately.
func taskProperties(t Task) map[string]interface{} {
	props := map[string]interface{}{
		propName: map[string]interface{}{
			"title": []map[string]interface{}{textPart(t.Name)},
		},
		propCourse: map[string]interface{}{
			"rich_text": []map[string]interface{}{textPart(t.Course)},
		},
		propOverview: map[string]interface{}{
			"rich_text": []map[string]interface{}{textPart(truncate(t.Overview, 2000))},
		},
		propUrgency: map[string]interface{}{
			"select": map[string]string{"name": t.Urgency},
		},
		propType: map[string]interface{}{
			"select": map[string]string{"name": typeAssignment},
		},
		propURL: map[string]interface{}{
			"url": t.URL,
		},
	}

	if t.DueAt != nil {
		props[propDue] = map[string]interface{}{
			"date": map[string]string{"start": t.DueAt.Format(time.RFC3339)},
		}
	} else {
		props[propDue] = map[string]interface{}{"date": nil}
	}

	return props
}

func textPart(content string) map[string]interface{} {
	return map[string]interface{}{
		"text": map[string]string{"content": content},
	}
}

// noteBlocks splits content into paragraph blocks, respecting Notion's
// 2000-character rich text limit.
func noteBlocks(content string) []map[string]interface{} {
	var blocks []map[string]interface{}
	for len(content) > 0 {
		chunk := content
		if len(chunk) > 2000 {
			chunk = chunk[:2000]
		}
		content = content[len(chunk):]

		blocks = append(blocks, map[string]interface{}{
			"object": "block",
			"type":   "paragraph",
			"paragraph": map[string]interface{}{
				"rich_text": []map[string]interface{}{textPart(chunk)},
			},
		})
	}
	return blocks
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// do performs one JSON request/response round trip.
func (c *Client) do(ctx context.Context, method, endpoint string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("notion request failed: %w", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("notion API error (%d, %s): %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("notion API error (%d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
