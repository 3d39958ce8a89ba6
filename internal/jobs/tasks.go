// Package jobs tareas en segundo plano del dashboard sobre asynq (Redis).
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/storefront-api/internal/domain/timewindow"
)

const (
	// QueueDefault cola por defecto de las tareas.
	QueueDefault = "default"
	// TaskDashboardWarmup precalcula los resultados cacheados del dashboard.
	TaskDashboardWarmup = "dashboard:warmup"
)

// WarmupPayload filtros a precalcular. Vacío = todos.
type WarmupPayload struct {
	Filters []timewindow.Filter `json:"filters,omitempty"`
}

// NewDashboardWarmupTask construye la tarea de precalentamiento.
func NewDashboardWarmupTask(filters ...timewindow.Filter) (*asynq.Task, error) {
	data, err := json.Marshal(WarmupPayload{Filters: filters})
	if err != nil {
		return nil, fmt.Errorf("jobs: payload warmup: %w", err)
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}
