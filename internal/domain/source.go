package domain

import "time"

// Source is an inbound channel (bot, widget, messenger) through which contacts arrive.
type Source struct {
	ID          string
	Name        string
	Code        string
	Description *string
	Active      bool
	CreatedAt   time.Time
}
