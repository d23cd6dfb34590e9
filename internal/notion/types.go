package notion

import "time"

// Task is one row of the assignment database, flattened from Notion's
// property envelope. PageID is Notion's id; the Canvas assignment id is
// recovered from URL by the synchronizer.
type Task struct {
	PageID   string
	Name     string
	Course   string
	Overview string
	Urgency  string
	Done     bool
	DueAt    *time.Time
	URL      string
}

// Property names in the assignment database. The schema is owned by the
// Notion workspace, not by this program.
const (
	propName     = "Name"
	propCourse   = "Course"
	propOverview = "Overview"
	propUrgency  = "Urgency"
	propDone     = "Done"
	propDue      = "Due"
	propURL      = "URL"
	propType     = "Type"

	typeAssignment = "Assignment"
)

// page is the wire form of a Notion page in query responses.
type page struct {
	ID         string               `json:"id"`
	Properties map[string]pageValue `json:"properties"`
}

type pageValue struct {
	Type     string     `json:"type"`
	Title    []richText `json:"title,omitempty"`
	RichText []richText `json:"rich_text,omitempty"`
	Select   *selectVal `json:"select,omitempty"`
	Checkbox bool       `json:"checkbox,omitempty"`
	Date     *dateVal   `json:"date,omitempty"`
	URL      string     `json:"url,omitempty"`
}

type richText struct {
	PlainText string `json:"plain_text,omitempty"`
	Text      *struct {
		Content string `json:"content"`
	} `json:"text,omitempty"`
}

type selectVal struct {
	Name string `json:"name"`
}

type dateVal struct {
	Start string `json:"start"`
}

// toTask flattens a wire page into a Task.
func (p *page) toTask() Task {
	t := Task{PageID: p.ID}

	if v, ok := p.Properties[propName]; ok {
		t.Name = plainText(v.Title)
	}
	if v, ok := p.Properties[propCourse]; ok {
		t.Course = plainText(v.RichText)
	}
	if v, ok := p.Properties[propOverview]; ok {
		t.Overview = plainText(v.RichText)
	}
	if v, ok := p.Properties[propUrgency]; ok && v.Select != nil {
		t.Urgency = v.Select.Name
	}
	if v, ok := p.Properties[propDone]; ok {
		t.Done = v.Checkbox
	}
	if v, ok := p.Properties[propDue]; ok && v.Date != nil {
		if ts, err := time.Parse(time.RFC3339, v.Date.Start); err == nil {
			t.DueAt = &ts
		} else if d, err := time.Parse("2006-01-02", v.Date.Start); err == nil {
			t.DueAt = &d
		}
	}
	if v, ok := p.Properties[propURL]; ok {
		t.URL = v.URL
	}

	return t
}

func plainText(parts []richText) string {
	var s string
	for _, p := range parts {
		if p.PlainText != "" {
			s += p.PlainText
		} else if p.Text != nil {
			s += p.Text.Content
		}
	}
	return s
}
