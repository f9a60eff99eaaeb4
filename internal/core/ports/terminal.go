package ports

// Terminal is the line-based console the cabinet talks to. The core never
// touches stdin or stdout directly; tests substitute a scripted fake.
type Terminal interface {
	// Println writes each argument on its own line.
	Println(lines ...string)
	// Printf writes formatted output.
	Printf(format string, args ...any)
	// ReadLine writes the prompt and blocks for one line of input,
	// returning it with surrounding whitespace trimmed. io.EOF is
	// returned when input is exhausted.
	ReadLine(prompt string) (string, error)
}
