package entity

import (
	"time"

	"github.com/google/uuid"
)

// Quote is an archived calculation run.
type Quote struct {
	ID        uuid.UUID     `json:"id"`
	Source    string        `json:"source"`
	Rows      []ChargedLine `json:"rows"`
	Totals    Totals        `json:"totals"`
	CreatedAt time.Time     `json:"created_at"`
}
