package recorder

import "context"

// NoopRecorder discards all records.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSnapshot(ctx context.Context, snap *Snapshot) error { return nil }

func (n *NoopRecorder) ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	return []Snapshot{}, nil
}

func (n *NoopRecorder) Close() error { return nil }
