package task

// Outcome classifies how a dispatched unit of work ended.
type Outcome int

const (
	// Completed means the unit returned a value.
	Completed Outcome = iota
	// Cancelled means the exit broadcast won the race and the unit was
	// abandoned before resolving.
	Cancelled
	// Faulted means the unit terminated via an unrecovered panic.
	Faulted
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Faulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Join is the handle to the eventual outcome of a dispatched unit of work.
// The zero value is not usable; handles come from the spawn functions.
type Join[R any] struct {
	done       chan struct{}
	outcome    Outcome
	value      R
	diagnostic string
}

func newJoin[R any]() *Join[R] {
	return &Join[R]{done: make(chan struct{})}
}

// Done returns the channel closed once the outcome is known.
func (j *Join[R]) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the outcome is known and returns it.
func (j *Join[R]) Wait() Outcome {
	<-j.done
	return j.outcome
}

// Result blocks until the outcome is known. The value is meaningful only
// when the outcome is Completed.
func (j *Join[R]) Result() (R, Outcome) {
	<-j.done
	return j.value, j.outcome
}

// Diagnostic blocks until the outcome is known and returns the best-effort
// fault message. Empty unless the outcome is Faulted.
func (j *Join[R]) Diagnostic() string {
	<-j.done
	return j.diagnostic
}

func (j *Join[R]) complete(v R) {
	j.value = v
	j.outcome = Completed
	close(j.done)
}

func (j *Join[R]) cancel() {
	j.outcome = Cancelled
	close(j.done)
}

func (j *Join[R]) fault(diag string) {
	j.outcome = Faulted
	j.diagnostic = diag
	close(j.done)
}
