// Package store keeps simulation run history and versioned assumption
// documents.
package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// Run is one recorded simulation with its raw request and response bodies.
type Run struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Outcome   string    `json:"outcome"`
	Products  int       `json:"products"`
	CreatedAt time.Time `json:"created_at"`
	Request   []byte    `json:"-"`
	Response  []byte    `json:"-"`
}

// AssumptionVersion is one saved assumptions document.
type AssumptionVersion struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	Data      []byte    `json:"-"`
}

// Store persists runs and assumption versions.
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	SaveAssumptions(ctx context.Context, v *AssumptionVersion) error
	GetAssumptions(ctx context.Context, id string) (*AssumptionVersion, error)
	LatestAssumptions(ctx context.Context) (*AssumptionVersion, error)
	Close() error
}
