package model

import "time"

// Weekday names use the server's spelling (capitalized English day names).
const (
	Monday    = "Monday"
	Tuesday   = "Tuesday"
	Wednesday = "Wednesday"
	Thursday  = "Thursday"
	Friday    = "Friday"
	Saturday  = "Saturday"
	Sunday    = "Sunday"
)

// Weekdays lists all seven weekday names in calendar order (Monday first,
// matching the server's choices enum).
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ValidWeekday reports whether s is one of the seven server weekday names.
func ValidWeekday(s string) bool {
	for _, w := range Weekdays {
		if w == s {
			return true
		}
	}
	return false
}

// WeekdayOf returns the server weekday name for a calendar date.
func WeekdayOf(t time.Time) string {
	return t.Weekday().String()
}

// Task is a master-library task. TemplateCount/TemplateNames are computed by
// the server and describe which templates reference the task (used for the
// delete warning).
type Task struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	TemplateCount int       `json:"template_count"`
	TemplateNames []string  `json:"template_names"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TemplateTask is a task's membership in a template, with its sort key.
// ID is the master task id; TemplateTaskID is the association's own id
// (only present on template detail responses).
type TemplateTask struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Order          int    `json:"order"`
	TemplateTaskID int    `json:"template_task_id,omitempty"`
}

// Template is a recurring task list bound to a set of weekdays.
// A weekday belongs to at most one template per user; the server enforces
// this on save and the client checks it before submitting.
type Template struct {
	ID        int            `json:"id"`
	Title     string         `json:"title"`
	Weekdays  []string       `json:"weekdays"`
	Tasks     []TemplateTask `json:"tasks"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TemplateRef is the abbreviated template object embedded in schedule responses.
type TemplateRef struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Label tags adhoc tasks. Color is "#RRGGBB"; the server accepts any hex
// color, the client only suggests a palette.
type Label struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DailyTask is one row of a daily schedule, or an adhoc task when IsAdhoc is
// set (then DueDate is populated and the task belongs to no schedule).
// Order keys are multiples of ten.
type DailyTask struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Order       int        `json:"order"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	DueDate     string     `json:"due_date,omitempty"`
	IsAdhoc     bool       `json:"is_adhoc"`
	Labels      []Label    `json:"labels,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty"`
}

// HasLabel reports whether the task carries the given label id.
func (t DailyTask) HasLabel(labelID string) bool {
	for _, l := range t.Labels {
		if l.ID == labelID {
			return true
		}
	}
	return false
}

// Schedule is the daily task list materialized for one calendar date.
// At most one exists per date per user.
type Schedule struct {
	ID        int         `json:"id"`
	Date      string      `json:"date"` // YYYY-MM-DD
	Template  TemplateRef `json:"template"`
	Tasks     []DailyTask `json:"tasks"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
	UpdatedAt time.Time   `json:"updated_at,omitempty"`
}

// Profile is the account's profile record. DateJoined/LastLogin/LastActivity
// are read-only server metadata.
type Profile struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	Avatar       string `json:"avatar"`
	LastActivity string `json:"last_activity"`
	DateJoined   string `json:"date_joined"`
	LastLogin    string `json:"last_login"`
}

// User is the authenticated identity held in memory for the session.
// Nothing beyond the server's session cookie is persisted.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Display string `json:"display"`
}

// CompletionStat is one row of the completion-stats analytics query.
type CompletionStat struct {
	Template           string  `json:"template"`
	Task               string  `json:"task"`
	TotalInstances     int     `json:"total_instances"`
	CompletedInstances int     `json:"completed_instances"`
	CompletionRate     float64 `json:"completion_rate"`
}
