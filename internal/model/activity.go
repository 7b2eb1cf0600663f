package model

import "time"

// Activity is one entry of the change history.
type Activity struct {
	At     time.Time `json:"at"`
	Op     string    `json:"op"`
	Year   string    `json:"year"`
	Class  string    `json:"class"`
	Detail string    `json:"detail"`
	ID     int64     `json:"id"`
}
