// Package jobs defines the background tasks that pre-fill provider caches.
package jobs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/aniwatch/aniwatch/anime"
)

const (
	TaskWarmCatalog = "catalog:warm"

	// QueueWarm is the queue warm tasks are enqueued on.
	QueueWarm = "warm"
)

// Warm kinds.
const (
	KindList   = "list"
	KindTop    = "top"
	KindSeason = "season"
	KindDetail = "detail"
)

type WarmPayload struct {
	Provider string `json:"provider,omitempty"`
	Kind     string `json:"kind"`
	ID       int    `json:"id,omitempty"`
	Year     int    `json:"year,omitempty"`
	Season   string `json:"season,omitempty"`
	Page     int    `json:"page,omitempty"`
}

// Validate checks the payload shape. Provider names are checked by the
// handler against its registry.
func (p WarmPayload) Validate() error {
	switch p.Kind {
	case KindList, KindTop:
	case KindSeason:
		if p.Season != "" && !anime.ValidSeason(p.Season) {
			return fmt.Errorf("invalid season %q", p.Season)
		}
		if p.Year < 0 {
			return fmt.Errorf("invalid year %d", p.Year)
		}
	case KindDetail:
		if p.ID <= 0 {
			return fmt.Errorf("detail warm needs a positive id, got %d", p.ID)
		}
	default:
		return fmt.Errorf("unknown warm kind %q", p.Kind)
	}
	if p.Page < 0 {
		return fmt.Errorf("invalid page %d", p.Page)
	}
	return nil
}

// NewWarmTask builds a warm task with a fresh task id.
func NewWarmTask(p WarmPayload) (*asynq.Task, error) {
	p.Season = strings.ToLower(strings.TrimSpace(p.Season))
	if err := p.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWarmCatalog, data,
		asynq.Queue(QueueWarm),
		asynq.TaskID(uuid.NewString()),
		asynq.MaxRetry(5),
	), nil
}
