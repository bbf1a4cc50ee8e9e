package store

import "context"

// NoopStore discards writes and finds nothing. It is used when no database path
// is configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) SaveRun(_ context.Context, _ *Run) error { return nil }
func (n *NoopStore) GetRun(_ context.Context, _ string) (*Run, error) {
	return nil, ErrNotFound
}
func (n *NoopStore) ListRuns(_ context.Context, _ int) ([]Run, error) { return []Run{}, nil }
func (n *NoopStore) SaveAssumptions(_ context.Context, _ *AssumptionVersion) error {
	return nil
}
func (n *NoopStore) GetAssumptions(_ context.Context, _ string) (*AssumptionVersion, error) {
	return nil, ErrNotFound
}
func (n *NoopStore) LatestAssumptions(_ context.Context) (*AssumptionVersion, error) {
	return nil, ErrNotFound
}
func (n *NoopStore) Close() error { return nil }
