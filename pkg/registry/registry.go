// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*WorkerRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg WorkerRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// FindByTaskType returns the worker entry registered for the given
// Zeebe task type, or nil if none is registered.
func (r *WorkerRegistry) FindByTaskType(taskType string) *Worker {
	for i := range r.Workers {
		if r.Workers[i].TaskType == taskType {
			return &r.Workers[i]
		}
	}
	return nil
}

// Validate checks registry integrity: at least one worker, unique IDs,
// and the required fields on every entry.
func (r *WorkerRegistry) Validate() error {
	if len(r.Workers) == 0 {
		return fmt.Errorf("registry contains no workers")
	}

	ids := make(map[string]bool)
	for _, w := range r.Workers {
		if w.ID == "" {
			return fmt.Errorf("worker missing required field: ID")
		}
		if ids[w.ID] {
			return fmt.Errorf("duplicate worker ID: %s", w.ID)
		}
		ids[w.ID] = true

		if w.DisplayName == "" {
			return fmt.Errorf("worker %s missing required field: DisplayName", w.ID)
		}
		if w.TaskType == "" {
			return fmt.Errorf("worker %s missing required field: TaskType", w.ID)
		}
		if w.Category == "" {
			return fmt.Errorf("worker %s missing required field: Category", w.ID)
		}
	}
	return nil
}
