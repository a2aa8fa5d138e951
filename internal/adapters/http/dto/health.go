package dto

import "sort"

// Health statuses reported by the liveness and readiness endpoints.
const (
	HealthUp       = "up"
	HealthDown     = "down"
	HealthReady    = "ready"
	HealthNotReady = "not_ready"
)

// ServiceInfo identifies the running service in health responses.
type ServiceInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ComponentHealth is one backing component's readiness.
type ComponentHealth struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse is the body of GET /health/live and GET /health/ready.
// Components is omitted from liveness responses.
type HealthResponse struct {
	Status     string            `json:"status"`
	Service    ServiceInfo       `json:"service"`
	Components []ComponentHealth `json:"components,omitempty"`
}

// ToReadinessResponse folds checker results into a HealthResponse sorted by
// component name. Ready reports whether every component is up.
func ToReadinessResponse(info ServiceInfo, results map[string]error) (resp HealthResponse, ready bool) {
	ready = true
	components := make([]ComponentHealth, 0, len(results))
	for name, err := range results {
		c := ComponentHealth{Name: name, Status: HealthUp}
		if err != nil {
			c.Status = HealthDown
			c.Error = err.Error()
			ready = false
		}
		components = append(components, c)
	}
	sort.Slice(components, func(i, j int) bool { return components[i].Name < components[j].Name })

	resp = HealthResponse{Status: HealthReady, Service: info, Components: components}
	if !ready {
		resp.Status = HealthNotReady
	}
	return resp, ready
}
