// Package task owns the audit-task lifecycle state machine: submit a
// crawl job to the vendor, poll it to completion, cancel it on demand.
package task

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/publicsuffix"

	"github.com/amosWeiskopf/auditsmith/internal/models"
	"github.com/amosWeiskopf/auditsmith/pkg/dataforseo"
)

var (
	// ErrTaskNotFound means the caller referenced an unknown task. It
	// is never retried.
	ErrTaskNotFound = errors.New("audit task not found")

	// ErrInvalidTaskState means the operation requires a different
	// lifecycle state. It is never retried.
	ErrInvalidTaskState = errors.New("audit task is not in the required state")

	// ErrRobotsDisallowed means the target's robots.txt forbids
	// crawling, detected before paying the vendor for a job.
	ErrRobotsDisallowed = errors.New("target robots.txt disallows crawling")
)

const robotsAgent = "auditsmith"

// VendorClient is the slice of the vendor API the manager needs.
type VendorClient interface {
	SubmitTask(ctx context.Context, req dataforseo.TaskPostRequest) (string, float64, error)
	Summary(ctx context.Context, taskID string) (*dataforseo.SummaryResult, float64, error)
	ForceStop(ctx context.Context, taskID string) error
}

// Manager drives tasks through Pending -> InProgress -> {Completed,
// Failed}. Terminal states are never left.
type Manager struct {
	client     VendorClient
	store      Store
	httpClient *http.Client // robots.txt preflight only
	logger     zerolog.Logger

	now   func() time.Time
	newID func() string
}

// NewManager wires a manager to a vendor client and a task store.
func NewManager(client VendorClient, store Store, logger zerolog.Logger) *Manager {
	return &Manager{
		client:     client,
		store:      store,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		now:        time.Now,
		newID:      randomID,
	}
}

// CreateTask submits a crawl job for target. On vendor rejection no
// task record is created and the vendor's reason is surfaced verbatim.
func (m *Manager) CreateTask(ctx context.Context, target, ownerID string, opts models.AuditOptions) (*models.AuditTask, error) {
	domain, err := normalizeTarget(target)
	if err != nil {
		return nil, err
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 100
	}

	if !opts.SkipRobotsPreflight {
		if err := m.checkRobots(ctx, target, domain); err != nil {
			return nil, err
		}
	}

	vendorID, cost, err := m.client.SubmitTask(ctx, dataforseo.TaskPostRequest{
		Target:           domain,
		MaxCrawlPages:    opts.MaxPages,
		EnableJavaScript: opts.EnableJavaScript,
		LoadResources:    opts.LoadResources,
		CheckSpell:       opts.CheckSpellIssues,
		Tag:              ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("vendor rejected audit task for %s: %w", domain, err)
	}

	now := m.now()
	task := &models.AuditTask{
		ID:           m.newID(),
		VendorTaskID: vendorID,
		Target:       domain,
		Status:       models.TaskPending,
		MaxPages:     opts.MaxPages,
		OwnerID:      ownerID,
		Cost:         cost,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := m.store.Save(task); err != nil {
		return nil, fmt.Errorf("save audit task: %w", err)
	}

	m.logger.Info().
		Str("task_id", task.ID).
		Str("vendor_task_id", vendorID).
		Str("target", domain).
		Int("max_pages", opts.MaxPages).
		Msg("audit task created")
	return task, nil
}

// Get returns the stored task by id.
func (m *Manager) Get(id string) (*models.AuditTask, error) {
	task, ok, err := m.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("load audit task %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return task, nil
}

// PollStatus reads the vendor's crawl progress and advances the state
// machine. A transport failure maps the returned view to Failed
// without terminating the stored record; callers should re-poll. The
// poll error, if any, is returned alongside the view.
func (m *Manager) PollStatus(ctx context.Context, taskID string) (*models.AuditTask, error) {
	task, err := m.Get(taskID)
	if err != nil {
		return nil, err
	}
	if task.Status.Terminal() {
		return task, nil
	}

	summary, cost, err := m.client.Summary(ctx, task.VendorTaskID)
	if err != nil {
		view := *task
		view.Status = models.TaskFailed
		view.LastError = err.Error()
		m.logger.Warn().Str("task_id", taskID).Err(err).Msg("poll failed")
		return &view, err
	}

	task.Progress = clampProgress(summary.CrawlProgress)
	task.Status = statusForProgress(task.Progress)
	task.Cost += cost
	task.UpdatedAt = m.now()
	task.LastError = ""
	if task.Status == models.TaskCompleted && task.CompletedAt == nil {
		done := m.now()
		task.CompletedAt = &done
	}

	if err := m.store.Save(task); err != nil {
		return nil, fmt.Errorf("save audit task: %w", err)
	}
	return task, nil
}

// Cancel issues a force-stop to the vendor. Success is defined solely
// by the vendor's acknowledgement.
func (m *Manager) Cancel(ctx context.Context, taskID string) error {
	task, err := m.Get(taskID)
	if err != nil {
		return err
	}
	if task.Status.Terminal() {
		return fmt.Errorf("%w: %s is already %s", ErrInvalidTaskState, taskID, task.Status)
	}

	if err := m.client.ForceStop(ctx, task.VendorTaskID); err != nil {
		return fmt.Errorf("force-stop %s: %w", taskID, err)
	}

	task.Status = models.TaskFailed
	task.LastError = "canceled by owner"
	task.UpdatedAt = m.now()
	if err := m.store.Save(task); err != nil {
		return fmt.Errorf("save audit task: %w", err)
	}

	m.logger.Info().Str("task_id", taskID).Msg("audit task canceled")
	return nil
}

// checkRobots fetches the target's robots.txt and rejects targets that
// disallow crawling their root. Fetch failures allow the task: a site
// without robots.txt is crawlable.
func (m *Manager) checkRobots(ctx context.Context, target, domain string) error {
	robotsURL := robotsURLFor(target, domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	if !robots.TestAgent("/", robotsAgent) {
		return fmt.Errorf("%w: %s", ErrRobotsDisallowed, domain)
	}
	return nil
}

func robotsURLFor(target, domain string) string {
	if u, err := url.Parse(target); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Scheme + "://" + u.Host + "/robots.txt"
	}
	return "https://" + domain + "/robots.txt"
}

// normalizeTarget reduces a target URL or hostname to the domain the
// vendor crawls, validated through the public suffix list.
func normalizeTarget(target string) (string, error) {
	raw := strings.TrimSpace(target)
	if raw == "" {
		return "", errors.New("empty audit target")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "", fmt.Errorf("invalid audit target %q", target)
	}
	host := u.Hostname()
	if u.Port() != "" {
		host = u.Host
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(u.Hostname()); err != nil {
		// IP literals and single-label hosts have no eTLD+1; accept
		// them as-is for local and staging targets.
		return host, nil
	}
	return host, nil
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func statusForProgress(p int) models.TaskStatus {
	switch {
	case p <= 0:
		return models.TaskPending
	case p >= 100:
		return models.TaskCompleted
	default:
		return models.TaskInProgress
	}
}

func randomID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("task-%d", time.Now().UnixNano())
	}
	return "task-" + hex.EncodeToString(buf)
}
