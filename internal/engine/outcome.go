package engine

import "fmt"

// Outcome is the classification of an invocation, a command, or a whole
// run. Larger values are worse.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeLintFailure
	OutcomeExecutionError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeLintFailure:
		return "lint failure"
	case OutcomeExecutionError:
		return "execution error"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Worst returns the more severe of two outcomes.
func Worst(a, b Outcome) Outcome {
	if b > a {
		return b
	}
	return a
}

// Classification is an outcome plus a short description of why it was
// reached. Detail is empty for successes.
type Classification struct {
	Outcome Outcome
	Detail  string
}

// TidyOutcome says whether a successful tidy invocation changed its files.
type TidyOutcome int

const (
	TidyNotApplicable TidyOutcome = iota
	TidyUnchanged
	TidyChanged
	TidyUnknown
)

func (t TidyOutcome) String() string {
	switch t {
	case TidyNotApplicable:
		return "n/a"
	case TidyUnchanged:
		return "unchanged"
	case TidyChanged:
		return "changed"
	case TidyUnknown:
		return "maybe changed"
	default:
		return fmt.Sprintf("TidyOutcome(%d)", int(t))
	}
}
