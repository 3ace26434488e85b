// Package job runs corpus maintenance work (crawl batches) as background
// jobs: a Postgres-backed job table plus an AMQP queue.
package job

import (
	"context"
	"encoding/json"
	"time"
)

// TaskTypeCrawl is a batch of URLs to crawl and index.
const TaskTypeCrawl = "crawl"

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job represents a background job
type Job struct {
	ID        int             `json:"id"`
	TaskType  string          `json:"task_type"`
	Payload   json.RawMessage `json:"payload"`
	Status    JobStatus       `json:"status"`
	Error     *string         `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// JobRepository persists jobs and their status transitions.
type JobRepository interface {
	Create(ctx context.Context, taskType string, payload json.RawMessage) (*Job, error)
	Get(ctx context.Context, id int) (*Job, error)
	UpdateStatus(ctx context.Context, id int, status JobStatus, err *string) error
}

// CrawlPayload is the payload of a crawl job.
type CrawlPayload struct {
	URLs []string `json:"urls"`
}
