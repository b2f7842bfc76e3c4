// Package queue 以 Redis list 作為背景工作佇列，工作狀態以 JSON 存在 Redis。
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"park-with-ease/internal/cache"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	QueueKey         = "parking:jobs"
	resultKeyPrefix  = "parking:job:"
	DefaultResultTTL = 24 * time.Hour
)

type State string

const (
	StatePending State = "pending"
	StateStarted State = "started"
	StateSuccess State = "success"
	StateFailure State = "failure"
)

type Kind string

const (
	KindExportCSV     Kind = "export_csv"
	KindSendReminders Kind = "send_reminders"
)

var ErrNotFound = errors.New("job not found")

type Job struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	UserID     int       `json:"user_id,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type Result struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	UserID    int       `json:"user_id,omitempty"`
	State     State     `json:"state"`
	Filename  string    `json:"filename,omitempty"`
	Sent      int       `json:"sent,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Submitter 由 API 端使用
type Submitter interface {
	Submit(ctx context.Context, kind Kind, userID int) (string, error)
}

// StatusReader 由 API 端查詢工作狀態
type StatusReader interface {
	Status(ctx context.Context, id string) (*Result, error)
}

// Client 為 API 端所需的佇列操作
type Client interface {
	Submitter
	StatusReader
}

var (
	newID   = uuid.NewString
	timeNow = time.Now
)

type RedisQueue struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewRedisQueue(c cache.Cache, resultTTL time.Duration) *RedisQueue {
	if resultTTL <= 0 {
		resultTTL = DefaultResultTTL
	}
	return &RedisQueue{cache: c, ttl: resultTTL}
}

func resultKey(id string) string {
	return resultKeyPrefix + id
}

// Submit 先寫入 pending 狀態再推入佇列，避免 worker 搶先完成後被覆蓋。
func (q *RedisQueue) Submit(ctx context.Context, kind Kind, userID int) (string, error) {
	job := Job{
		ID:         newID(),
		Kind:       kind,
		UserID:     userID,
		EnqueuedAt: timeNow().UTC(),
	}
	if err := q.SetResult(ctx, Result{ID: job.ID, Kind: kind, UserID: userID, State: StatePending}); err != nil {
		return "", err
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal job: %w", err)
	}
	if err := q.cache.LPush(ctx, QueueKey, payload).Err(); err != nil {
		return "", fmt.Errorf("enqueue job: %w", err)
	}
	return job.ID, nil
}

// Next 阻塞最多 timeout 等待下一個工作；逾時回傳 nil, nil。
func (q *RedisQueue) Next(ctx context.Context, timeout time.Duration) (*Job, error) {
	vals, err := q.cache.BRPop(ctx, timeout, QueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("dequeue job: %w", err)
	}
	if len(vals) != 2 {
		return nil, fmt.Errorf("dequeue job: unexpected reply %v", vals)
	}
	var job Job
	if err := json.Unmarshal([]byte(vals[1]), &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}

func (q *RedisQueue) Status(ctx context.Context, id string) (*Result, error) {
	raw, err := q.cache.Get(ctx, resultKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	var r Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &r, nil
}

func (q *RedisQueue) SetResult(ctx context.Context, r Result) error {
	r.UpdatedAt = timeNow().UTC()
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := q.cache.Set(ctx, resultKey(r.ID), payload, q.ttl).Err(); err != nil {
		return fmt.Errorf("store job %s: %w", r.ID, err)
	}
	return nil
}

var (
	_ Submitter    = (*RedisQueue)(nil)
	_ StatusReader = (*RedisQueue)(nil)
	_ Client       = (*RedisQueue)(nil)
)
