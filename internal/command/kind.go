package command

import "fmt"

// Action is what a run asks commands to do.
type Action int

const (
	ActionLint Action = iota
	ActionTidy
)

func (a Action) String() string {
	switch a {
	case ActionLint:
		return "lint"
	case ActionTidy:
		return "tidy"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Gerund is used in user-facing messages ("Linting ...").
func (a Action) Gerund() string {
	switch a {
	case ActionLint:
		return "Linting"
	case ActionTidy:
		return "Tidying"
	default:
		return a.String()
	}
}

// Kind is the set of actions a command supports.
type Kind int

const (
	KindLint Kind = iota
	KindTidy
	KindBoth
)

func (k Kind) String() string {
	switch k {
	case KindLint:
		return "lint"
	case KindTidy:
		return "tidy"
	case KindBoth:
		return "both"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses the "type" key of a command.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "lint":
		return KindLint, nil
	case "tidy":
		return KindTidy, nil
	case "both":
		return KindBoth, nil
	default:
		return 0, fmt.Errorf("unknown command type %q, expected one of lint, tidy, both", s)
	}
}

// Supports reports whether a command of this kind runs for action.
func (k Kind) Supports(a Action) bool {
	switch a {
	case ActionLint:
		return k == KindLint || k == KindBoth
	case ActionTidy:
		return k == KindTidy || k == KindBoth
	default:
		return false
	}
}
