package model

// Package model contains the request and response payloads exchanged over HTTP.
// Structs carry `validate` tags; the router checks every response against them before serializing.

// HealthStatus is returned by the API health check.
type HealthStatus struct {
	Status  string `json:"status" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// ExamplePayload is a generic data envelope with an item count.
type ExamplePayload struct {
	Data  map[string]any `json:"data" validate:"required,min=1"`
	Count int            `json:"count" validate:"gte=0"`
}

// Welcome is the root endpoint response.
type Welcome struct {
	Message string `json:"message" validate:"required"`
}

// AppInfo exposes non-sensitive settings.
type AppInfo struct {
	AppName string `json:"app_name" validate:"required"`
	Version string `json:"version" validate:"required"`
}
