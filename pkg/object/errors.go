package object

// Access return codes shared by every container operation (spec §6.1).
const (
	// Success indicates the operation completed and produced a value.
	Success = 1
	// Empty indicates a normal negative lookup outcome — not an error.
	Empty = 0
	// Error indicates a failure (allocation failure, precondition
	// violation, or similar).
	Error = -1
)
