package models

import "time"

// Login outcomes.
const (
	LoginSuccess = "SUCCESS"
	LoginFailure = "FAILURE"
)

// LoginLog is one audit entry for an authentication attempt.
type LoginLog struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	IPAddress     string    `json:"ip_address"`
	LoginTime     time.Time `json:"login_time"`
	Status        string    `json:"status"`
	UserAgent     string    `json:"user_agent,omitempty"`
	Path          string    `json:"path,omitempty"`
	FailureReason string    `json:"failure_reason,omitempty"`
}

// LoginLogFilter narrows audit queries. Empty fields match all.
type LoginLogFilter struct {
	Username string `form:"username"`
	IP       string `form:"ip"`
	Status   string `form:"status"`
}
