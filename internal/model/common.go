package model

// APIResponse is the standard HTTP envelope.
type APIResponse struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Country is a supported reporting market.
type Country struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Active     bool   `json:"active"`
	Region     string `json:"region"`
}

// HealthStatus reports service health.
type HealthStatus struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Timestamp string            `json:"timestamp"`
}
