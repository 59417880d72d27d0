package functions

import (
	"time"

	"faas-platform/internal/core/executor"
)

// Function is a registered FaaS function. The execution core reads these
// records but never mutates them.
type Function struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	Route     string    `gorm:"uniqueIndex" json:"route"`
	Language  string    `gorm:"index" json:"language"`
	Timeout   int       `json:"timeout"` // seconds
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// Spec is the read-only view handed to the dispatcher.
func (f *Function) Spec() executor.FunctionSpec {
	return executor.FunctionSpec{
		ID:         f.ID,
		Name:       f.Name,
		Language:   f.Language,
		Code:       f.Code,
		TimeoutSec: f.Timeout,
	}
}
