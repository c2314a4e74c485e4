package presenter

// Chars are the markers at the start of each output line.
type Chars struct {
	Ring           string
	Tidied         string
	Unchanged      string
	MaybeChanged   string
	LintClean      string
	LintDirty      string
	Empty          string
	Bullet         string
	ExecutionError string
}

// FunChars is the default character set.
var FunChars = Chars{
	Ring:           "💍",
	Tidied:         "💧",
	Unchanged:      "✨",
	MaybeChanged:   "🤷",
	LintClean:      "💯",
	LintDirty:      "💩",
	Empty:          "⚫",
	Bullet:         "▶",
	ExecutionError: "💥",
}

// BoringChars is used with --ascii.
var BoringChars = Chars{
	Ring:           ":",
	Tidied:         "*",
	Unchanged:      "|",
	MaybeChanged:   "?",
	LintClean:      "|",
	LintDirty:      "*",
	Empty:          "_",
	Bullet:         "*",
	ExecutionError: "!",
}
