// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*TaskRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg TaskRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Validate rejects registries with missing or duplicate task types.
func (r *TaskRegistry) Validate() error {
	seen := make(map[string]bool, len(r.Tasks))
	for i, task := range r.Tasks {
		if task.TaskType == "" {
			return fmt.Errorf("task %d (%s): taskType is required", i, task.ID)
		}
		if seen[task.TaskType] {
			return fmt.Errorf("duplicate task type %q", task.TaskType)
		}
		seen[task.TaskType] = true
	}
	return nil
}

// FindByTaskType returns the registry entry for a task type, or nil.
func (r *TaskRegistry) FindByTaskType(taskType string) *Task {
	for i := range r.Tasks {
		if r.Tasks[i].TaskType == taskType {
			return &r.Tasks[i]
		}
	}
	return nil
}
