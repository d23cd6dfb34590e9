package canvas

import "time"

// Course is an active course as returned by the Canvas API.
type Course struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CourseCode string `json:"course_code"`
}

// Assignment is a Canvas assignment. DueAt and PointsPossible are nullable
// in the API and stay nullable here; both-absent compares equal during
// change detection.
type Assignment struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	DueAt          *time.Time `json:"due_at"`
	PointsPossible *float64   `json:"points_possible"`
	Description    string     `json:"description"`
	HTMLURL        string     `json:"html_url"`

	// CourseName and CourseCode are filled in by the fetch layer; the
	// assignments endpoint does not include them.
	CourseName string `json:"course_name,omitempty"`
	CourseCode string `json:"course_code,omitempty"`
}
