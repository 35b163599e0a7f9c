package models

// Flash message categories. These are the only two values the UI knows
// how to render; anything else is a caller bug.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// FlashMessage is a transient per-session message shown on the next
// rendered page and then discarded.
type FlashMessage struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}
