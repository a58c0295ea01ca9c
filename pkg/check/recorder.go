package check

import "fmt"

// SubsystemRecord collects the probe results of one subsystem together with
// its terminal status.
type SubsystemRecord struct {
	Key     string   `json:"key"`
	Status  Status   `json:"status"`
	Results []Result `json:"results"`
}

// Recorder accumulates probe results and per-subsystem statuses for a single
// run. It is append-only and is only ever mutated by the Runner, which
// executes probes strictly sequentially.
type Recorder struct {
	summary Summary
	order   []string
	records map[string]*SubsystemRecord
}

func NewRecorder(keys ...string) *Recorder {
	r := &Recorder{
		records: make(map[string]*SubsystemRecord, len(keys)),
	}
	for _, key := range keys {
		r.register(key)
	}
	return r
}

func (r *Recorder) register(key string) *SubsystemRecord {
	if rec, ok := r.records[key]; ok {
		return rec
	}

	rec := &SubsystemRecord{Key: key, Status: StatusPending}
	r.records[key] = rec
	r.order = append(r.order, key)
	return rec
}

// Record appends res to the subsystem's probe list and updates the global
// counters. A warning outcome counts toward the passed bucket.
func (r *Recorder) Record(key string, res Result) {
	rec := r.register(key)
	rec.Results = append(rec.Results, res)

	r.summary.Total++
	switch res.Outcome {
	case OutcomeFailed:
		r.summary.Failed++
	case OutcomeWarning:
		r.summary.Passed++
		r.summary.Warnings++
	default:
		r.summary.Passed++
	}
}

// FinalizeSubsystem sets the terminal status of a subsystem. It may be
// called at most once per subsystem.
func (r *Recorder) FinalizeSubsystem(key string, status Status) error {
	rec := r.register(key)
	if rec.Status != StatusPending {
		return fmt.Errorf("subsystem %q was already finalized as %s", key, rec.Status)
	}

	rec.Status = status
	return nil
}

func (r *Recorder) Status(key string) Status {
	if rec, ok := r.records[key]; ok {
		return rec.Status
	}
	return StatusPending
}

func (r *Recorder) Summary() Summary {
	return r.summary
}

// Subsystems returns the recorded subsystems in registration order.
func (r *Recorder) Subsystems() []SubsystemRecord {
	out := make([]SubsystemRecord, 0, len(r.order))
	for _, key := range r.order {
		rec := r.records[key]
		results := make([]Result, len(rec.Results))
		copy(results, rec.Results)
		out = append(out, SubsystemRecord{Key: rec.Key, Status: rec.Status, Results: results})
	}
	return out
}
