package tasks

import (
	"fmt"
	"math/rand"
	"time"
)

type TaskType string

const (
	TaskTypeCrawlSeed TaskType = "crawl_seed"
)

type Task struct {
	ID        string
	Type      TaskType
	SeedURL   string
	StartedAt *time.Time
}

func NewTask(taskType TaskType, seedURL string) Task {
	uniqueID := fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Intn(10000))

	return Task{
		ID:      uniqueID,
		Type:    taskType,
		SeedURL: seedURL,
	}
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}
