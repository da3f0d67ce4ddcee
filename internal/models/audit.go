package models

import "time"

// TaskStatus is the lifecycle state of an audit task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// Terminal reports whether no further transition is possible from s.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// AuditTask tracks one vendor crawl job from submission to completion.
// It is mutated only by the task manager during polling; the report
// engine treats it as read-only.
type AuditTask struct {
	ID           string     `json:"id"`
	VendorTaskID string     `json:"vendor_task_id"`
	Target       string     `json:"target"`
	Status       TaskStatus `json:"status"`
	Progress     int        `json:"progress"` // crawl progress, 0-100
	MaxPages     int        `json:"max_pages"`
	OwnerID      string     `json:"owner_id"`
	Cost         float64    `json:"cost"` // accumulated vendor cost in USD
	LastError    string     `json:"last_error,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// AuditOptions controls how a crawl job is submitted to the vendor.
type AuditOptions struct {
	MaxPages            int  `json:"max_pages"`
	EnableJavaScript    bool `json:"enable_javascript"`
	LoadResources       bool `json:"load_resources"`
	CheckSpellIssues    bool `json:"check_spell_issues"`
	SkipRobotsPreflight bool `json:"skip_robots_preflight"`
}
