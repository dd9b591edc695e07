package domain

// Command is an external process invocation, such as a link step.
type Command struct {
	Name        InternedString
	Args        []string
	Environment map[string]string
	WorkingDir  string
}
