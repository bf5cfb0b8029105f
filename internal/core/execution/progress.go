package execution

// Status is the execution state of one item within a batch.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Progress is the per-item state of a batch. Name is captured when the item
// is enqueued and does not follow later catalog changes.
type Progress struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Snapshot is an immutable copy of every Progress entry reached so far, in
// input order.
type Snapshot []Progress

// Counts tallies the snapshot by status.
func (s Snapshot) Counts() (completed, failed, running int) {
	for _, p := range s {
		switch p.Status {
		case StatusCompleted:
			completed++
		case StatusFailed:
			failed++
		case StatusPending, StatusRunning:
			running++
		}
	}
	return completed, failed, running
}

// Last returns the most recently reached entry.
func (s Snapshot) Last() (Progress, bool) {
	if len(s) == 0 {
		return Progress{}, false
	}
	return s[len(s)-1], true
}

// Observer receives a full snapshot after every progress transition.
type Observer func(Snapshot)

// Result aggregates a finished batch. Errors holds one "<name>: <message>"
// entry per failed item, in input order.
type Result struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

// tracker owns the Progress entries of one running batch.
type tracker struct {
	entries []Progress
}

func (t *tracker) enqueue(id, name string) {
	t.entries = append(t.entries, Progress{ID: id, Name: name, Status: StatusPending})
}

// transition moves the latest entry forward. Transitions out of a terminal
// state are ignored.
func (t *tracker) transition(status Status, errMsg string) {
	last := &t.entries[len(t.entries)-1]
	if last.Status.Terminal() {
		return
	}
	last.Status = status
	if status == StatusFailed {
		last.Error = errMsg
	}
}

func (t *tracker) snapshot() Snapshot {
	out := make(Snapshot, len(t.entries))
	copy(out, t.entries)
	return out
}
