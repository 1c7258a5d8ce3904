package domain

// Status is the lifecycle state of an order.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
	StatusCancelled
	StatusFailed
)

var statusSlugs = map[Status]string{
	StatusPending:    "pending",
	StatusInProgress: "inprogress",
	StatusCompleted:  "completed",
	StatusCancelled:  "cancelled",
	StatusFailed:     "failed",
}

var statusLabelKeys = map[Status]string{
	StatusPending:    "status.pending",
	StatusInProgress: "status.in_progress",
	StatusCompleted:  "status.completed",
	StatusCancelled:  "status.cancelled",
	StatusFailed:     "status.failed",
}

func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled, StatusFailed}
}

// Slug returns the URL form of the status, e.g. "inprogress".
func (s Status) Slug() string {
	return statusSlugs[s]
}

// LabelKey returns the message-catalog key for the status label.
func (s Status) LabelKey() string {
	return statusLabelKeys[s]
}

func (s Status) Valid() bool {
	_, ok := statusSlugs[s]
	return ok
}

// StatusFromSlug resolves a URL slug back to a status.
func StatusFromSlug(slug string) (Status, bool) {
	for st, sl := range statusSlugs {
		if sl == slug {
			return st, true
		}
	}
	return 0, false
}

// StatusFromValue resolves the numeric wire value of a status.
func StatusFromValue(v int) (Status, bool) {
	s := Status(v)
	return s, s.Valid()
}
