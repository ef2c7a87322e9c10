package model

import "github.com/google/uuid"

// WebSocket message types
const (
	WSMessageTypeStatus   = "status"
	WSMessageTypeComplete = "complete"
	WSMessageTypeError    = "error"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage represents a generic WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}

// WSStatusMessage is pushed on every job transition
type WSStatusMessage struct {
	Type    string    `json:"type"`
	JobID   uuid.UUID `json:"jobId"`
	JobType JobType   `json:"jobType"`
	Status  JobStatus `json:"status"`
}

// WSCompleteMessage is pushed when a job completes
type WSCompleteMessage struct {
	Type    string      `json:"type"`
	JobID   uuid.UUID   `json:"jobId"`
	Status  JobStatus   `json:"status"`
	Article *ArticleRef `json:"article"`
}

// WSErrorMessage is pushed when a job fails
type WSErrorMessage struct {
	Type   string    `json:"type"`
	JobID  uuid.UUID `json:"jobId"`
	Status JobStatus `json:"status"`
	Error  WSError   `json:"error"`
}

// WSError represents error details
type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
