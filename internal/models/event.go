package models

// Auth event types published to Kafka.
const (
	EventUserRegistered = "user_registered"
	EventUserLoggedIn   = "user_logged_in"
)

// AuthEvent is the payload published for registration and login events.
type AuthEvent struct {
	EventID   string `json:"event_id"`  // Unique event identifier
	Type      string `json:"type"`      // EventUserRegistered or EventUserLoggedIn
	UserID    string `json:"user_id"`   // Affected user
	Username  string `json:"username"`  // Username at event time
	Timestamp int64  `json:"timestamp"` // Unix seconds
}
