package content

// Status tells a caller why a Result holds what it holds.
type Status int

const (
	StatusOK Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Result carries the degraded value together with how it was obtained.
// Value is always usable: an empty slice for lists, nil for a single post.
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

func (r Result[T]) Failed() bool { return r.Status == StatusFailed }
