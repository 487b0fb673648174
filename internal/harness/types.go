package harness

// Event records what a step did and what it observed.
type Event struct {
	Step  int    `json:"step"`
	Op    string `json:"op"`
	Saved string `json:"saved,omitempty"`
	Expr  string `json:"expr,omitempty"`
	Net   string `json:"net,omitempty"`

	// Tree is the parsed query in prefix form.
	Tree string `json:"tree,omitempty"`

	At int64  `json:"at"`
	To *int64 `json:"to,omitempty"`

	Time  *int64  `json:"time,omitempty"`
	Times []int64 `json:"times,omitempty"`
	Match *bool   `json:"match,omitempty"`
	Value string  `json:"value,omitempty"`
	Error string  `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every step matched its expectation.
	Pass bool `json:"pass"`

	// Events holds one entry per step, in order.
	Events []Event `json:"events"`

	// Errors contains expectation mismatches.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Events: []Event{},
		Errors: []string{},
	}
}

// AddError adds a mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
