package models

// Lifecycle is the soft-delete state shared by every owned collection.
type Lifecycle string

const (
	LifecycleActive  Lifecycle = "active"
	LifecycleDeleted Lifecycle = "deleted"
)

func (l Lifecycle) IsDeleted() bool {
	return l == LifecycleDeleted
}
