package storage

import "context"

// Keys of the persisted values. Every value is a JSON string; parsing is the
// caller's responsibility.
const (
	KeyHealthData = "health_data"
	KeyWorkouts   = "workouts"
	KeyMilestones = "milestones"
	KeyHealthUser = "health_user"
)

// KVStore is the contract over the persistent medium. Get reports an absent
// key as ("", false, nil), never as an error.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
