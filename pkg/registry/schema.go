// pkg/registry/schema.go
package registry

// TaskRegistry is the catalog of worker task types this service can
// subscribe to, loaded from configs/task-registry.json.
type TaskRegistry struct {
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`
	Tasks       []Task `json:"tasks"`
}

type Task struct {
	ID            string   `json:"id"`
	DisplayName   string   `json:"displayName"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	TaskType      string   `json:"taskType"`
	ErrorCodes    []string `json:"errorCodes"`
	Timeout       string   `json:"timeout"`
	Retries       int      `json:"retries"`
	MaxJobsActive int      `json:"maxJobsActive"`
	Workflows     []string `json:"workflows"`
	Tags          []string `json:"tags"`
}
