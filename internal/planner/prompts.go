package planner

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/canvas"
)

// overviewSystemPrompt instructs the LLM to summarize a single assignment.
const overviewSystemPrompt = `You are a study assistant summarizing one course assignment.
Write a 2-3 sentence overview of what the assignment asks for and how to approach it.
Plain text only: no markdown, no headings, no bullet points.
Do not repeat the assignment title or the course name.
Do not invent requirements that are not in the description.`

// weeklySystemPrompt instructs the LLM to produce a weekly study plan.
const weeklySystemPrompt = `You are a study planner producing a weekly review.
You will receive the student's assignments grouped by urgency tier.
Produce a short plan for the coming week:
- Start with overdue and urgent work, in due-date order.
- Suggest which days to work on what, given the due dates.
- Keep it under 300 words.
Base the plan only on the assignments provided; do not invent any.`

// dailySystemPrompt instructs the LLM to summarize overnight changes.
const dailySystemPrompt = `You are a study assistant summarizing what changed in the student's courses.
You will receive newly posted assignments and assignments whose due date or points changed.
Write a brief update naming each change and what it means for the student's schedule.
Keep it under 150 words. Mention only the changes provided.`

// WeeklyPlanPrompts returns the system and user prompts for the weekly
// review, grouping assignments by urgency tier relative to now.
func WeeklyPlanPrompts(assignments []canvas.Assignment, now time.Time) (system, user string) {
	return weeklySystemPrompt, weeklyPrompt(assignments, now)
}

// DailyUpdatePrompts returns the system and user prompts for summarizing
// detected changes.
func DailyUpdatePrompts(changes Changes) (system, user string) {
	return dailySystemPrompt, dailyPrompt(changes)
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// stripHTML flattens Canvas's HTML descriptions to plain text for prompts.
func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	return strings.Join(strings.Fields(s), " ")
}

// overviewPrompt renders one assignment as the user prompt for overview
// generation.
func overviewPrompt(a canvas.Assignment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Assignment: %s\n", a.Name)
	fmt.Fprintf(&sb, "Course: %s (%s)\n", a.CourseName, a.CourseCode)
	if a.DueAt != nil {
		fmt.Fprintf(&sb, "Due: %s\n", a.DueAt.Format("Mon Jan 2 15:04 MST"))
	} else {
		sb.WriteString("Due: no due date\n")
	}
	if a.PointsPossible != nil {
		fmt.Fprintf(&sb, "Points: %g\n", *a.PointsPossible)
	}
	if desc := stripHTML(a.Description); desc != "" {
		fmt.Fprintf(&sb, "Description: %s\n", clip(desc, 1500))
	}
	return sb.String()
}

// fallbackOverview is the deterministic text used when overview
// generation fails. Sync must continue past a dead completion backend.
func fallbackOverview(a canvas.Assignment) string {
	return fmt.Sprintf("Assignment %q for %s. See the course page for details.", a.Name, a.CourseName)
}

// weeklyPrompt renders all assignments grouped by urgency tier.
func weeklyPrompt(assignments []canvas.Assignment, now time.Time) string {
	groups := map[Urgency][]canvas.Assignment{}
	for _, a := range assignments {
		tier := Classify(a.DueAt, now)
		groups[tier] = append(groups[tier], a)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Today is %s.\n", now.Format("Monday, January 2, 2006"))
	for _, tier := range []Urgency{Overdue, Urgent, ThisWeek, Upcoming} {
		items := groups[tier]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s:\n", tier)
		for _, a := range items {
			sb.WriteString(assignmentLine(a))
		}
	}
	return sb.String()
}

// dailyPrompt renders detected changes for the daily update.
func dailyPrompt(changes Changes) string {
	var sb strings.Builder
	if len(changes.New) > 0 {
		sb.WriteString("New assignments:\n")
		for _, a := range changes.New {
			sb.WriteString(assignmentLine(a))
		}
	}
	if len(changes.Updated) > 0 {
		sb.WriteString("Changed assignments (due date or points):\n")
		for _, a := range changes.Updated {
			sb.WriteString(assignmentLine(a))
		}
	}
	return sb.String()
}

func assignmentLine(a canvas.Assignment) string {
	due := "no due date"
	if a.DueAt != nil {
		due = "due " + a.DueAt.Format("Mon Jan 2 15:04")
	}
	points := ""
	if a.PointsPossible != nil {
		points = fmt.Sprintf(", %g pts", *a.PointsPossible)
	}
	return fmt.Sprintf("- %s [%s] (%s%s)\n", a.Name, a.CourseCode, due, points)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
