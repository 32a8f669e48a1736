package dataset

// Progress receives one Increment per processed file.
type Progress interface {
	Increment()
	Done()
}

// ProgressFactory starts a progress indicator with a label and total count.
type ProgressFactory func(description string, total int) Progress

type noopProgress struct{}

func (noopProgress) Increment() {}
func (noopProgress) Done()      {}

// NoProgress is a ProgressFactory that draws nothing.
func NoProgress(string, int) Progress { return noopProgress{} }
