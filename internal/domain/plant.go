package domain

import "time"

type Plant struct {
	ID        int64
	Name      string
	Species   string
	CreatedAt time.Time
}
