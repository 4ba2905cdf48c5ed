package entities

// OperationFunc is an entry point of an extension operation.
// It returns a nonzero status on failure.
type OperationFunc = func(args []float64) int

// GeneratorFunc fills a table with generated values.
// It returns a nonzero status on failure.
type GeneratorFunc = func(table []float64) int

// OperationEntry describes one callable operation contributed by an
// extension library. The host's execution engine interprets it.
type OperationEntry struct {
	Init    OperationFunc `json:"-"`
	Perform OperationFunc `json:"-"`
	Name    string        `json:"name"`
	Outputs string        `json:"outputs,omitempty"`
	Inputs  string        `json:"inputs,omitempty"`
	Flags   uint32        `json:"flags,omitempty"`
}

// GeneratorEntry is a name/routine pair. An entry with an empty name
// terminates a generator table.
type GeneratorEntry struct {
	Routine GeneratorFunc
	Name    string
}

// IsSentinel reports whether the entry terminates a generator table.
func (e GeneratorEntry) IsSentinel() bool {
	return e.Name == ""
}
