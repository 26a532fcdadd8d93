// Package api provides a client for the ClickUp REST API v2.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlexString is a string that also decodes from a JSON number.
// ClickUp returns user ids as numbers and order indexes as either form.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flex string: unsupported value %s", string(data))
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the underlying string.
func (f FlexString) String() string {
	return string(f)
}

// User represents a ClickUp user.
type User struct {
	ID             FlexString `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Color          string     `json:"color"`
	ProfilePicture *string    `json:"profilePicture"`
	Initials       string     `json:"initials"`
}

// DisplayInitials returns the user's initials, deriving them from the
// username when the API left them empty.
func (u User) DisplayInitials() string {
	if u.Initials != "" {
		return u.Initials
	}
	name := []rune(u.Username)
	if len(name) > 2 {
		name = name[:2]
	}
	return strings.ToUpper(string(name))
}

// Status represents a task status.
type Status struct {
	Status     string     `json:"status"`
	Color      string     `json:"color"`
	Type       string     `json:"type"` // "open", "custom", "done", "closed"
	OrderIndex FlexString `json:"orderindex"`
}

// Priority represents a task priority. Lower ids are more urgent (1 = urgent).
type Priority struct {
	ID         string     `json:"id"`
	Priority   string     `json:"priority"`
	Color      string     `json:"color"`
	OrderIndex FlexString `json:"orderindex"`
}

// Location is a reference to the list, folder, or space holding a task.
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Attachment represents a file attached to a task.
type Attachment struct {
	ID             string  `json:"id"`
	Date           string  `json:"date"`
	Title          string  `json:"title"`
	Type           int     `json:"type"`
	Source         int     `json:"source"`
	Version        int     `json:"version"`
	Extension      string  `json:"extension"`
	ThumbnailSmall *string `json:"thumbnail_small"`
	ThumbnailLarge *string `json:"thumbnail_large"`
	URL            string  `json:"url"`
}

// Task represents a ClickUp task.
type Task struct {
	ID          string       `json:"id"`
	CustomID    *string      `json:"custom_id"`
	Name        string       `json:"name"`
	TextContent *string      `json:"text_content"`
	Description *string      `json:"description"`
	Status      Status       `json:"status"`
	OrderIndex  FlexString   `json:"orderindex"`
	DateCreated string       `json:"date_created"`
	DateUpdated string       `json:"date_updated"`
	DateClosed  *string      `json:"date_closed"`
	DateDone    *string      `json:"date_done"`
	Creator     User         `json:"creator"`
	Assignees   []User       `json:"assignees"`
	Watchers    []User       `json:"watchers"`
	Priority    *Priority    `json:"priority"`
	DueDate     *string      `json:"due_date"`
	StartDate   *string      `json:"start_date"`
	URL         string       `json:"url"`
	List        Location     `json:"list"`
	Project     Location     `json:"project"`
	Folder      Location     `json:"folder"`
	Parent      *string      `json:"parent"`
	Attachments []Attachment `json:"attachments"`
}

// Team represents a ClickUp workspace.
type Team struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Color   string       `json:"color"`
	Avatar  *string      `json:"avatar"`
	Members []TeamMember `json:"members"`
}

// TeamMember wraps a user inside a team listing.
type TeamMember struct {
	User User `json:"user"`
}

// CommentText is one fragment of a rich-text comment.
type CommentText struct {
	Text string `json:"text"`
}

// Comment represents a task comment.
type Comment struct {
	ID          FlexString    `json:"id"`
	Comment     []CommentText `json:"comment"`
	CommentText string        `json:"comment_text"`
	User        User          `json:"user"`
	Date        string        `json:"date"`
}

// UpdateTaskRequest represents the request body for updating a task.
type UpdateTaskRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	DueDate     *int64  `json:"due_date,omitempty"`
}

// TaskQuery contains optional filters for listing workspace tasks.
type TaskQuery struct {
	Assignees     []string // user ids; empty means every visible task
	DaysBack      int      // only tasks updated within the last N days; 0 disables
	IncludeClosed bool
	Subtasks      bool
}

type userResponse struct {
	User User `json:"user"`
}

type teamsResponse struct {
	Teams []Team `json:"teams"`
}

type tasksResponse struct {
	Tasks    []Task `json:"tasks"`
	LastPage *bool  `json:"last_page"`
}

type commentsResponse struct {
	Comments []Comment `json:"comments"`
}

// ParentID returns the parent id, or "" for top-level tasks.
func (t *Task) ParentID() string {
	if t.Parent == nil {
		return ""
	}
	return *t.Parent
}

// IsClosed returns true if the task is in a done or closed status.
func (t *Task) IsClosed() bool {
	return t.Status.Type == "done" || t.Status.Type == "closed" || t.DateClosed != nil
}

// Due returns the due time, if set and parseable.
func (t *Task) Due() (time.Time, bool) {
	return ParseMillis(t.DueDate)
}

// Updated returns the last update time, if parseable.
func (t *Task) Updated() (time.Time, bool) {
	return ParseMillis(&t.DateUpdated)
}

// IsOverdue returns true if the task is open and its due time has passed.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.IsClosed() {
		return false
	}
	due, ok := t.Due()
	return ok && due.Before(now)
}

// PriorityLabel returns the priority name, or "none".
func (t *Task) PriorityLabel() string {
	if t.Priority == nil || t.Priority.Priority == "" {
		return "none"
	}
	return t.Priority.Priority
}

// Text returns the plain comment text.
func (c *Comment) Text() string {
	if c.CommentText != "" {
		return c.CommentText
	}
	var b strings.Builder
	for _, part := range c.Comment {
		b.WriteString(part.Text)
	}
	return b.String()
}

// ParseMillis converts a millisecond-epoch string into a time.
func ParseMillis(s *string) (time.Time, bool) {
	if s == nil || *s == "" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(*s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
