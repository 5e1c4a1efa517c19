package registry

import "errors"

var (
	// ErrUnknownAgent indicates no descriptor exists for the identifier.
	// This is a configuration error, distinct from a classification miss.
	ErrUnknownAgent = errors.New("unknown agent")

	// ErrAgentNotExecutable indicates the descriptor exists but its
	// invocation target is missing from disk or PATH
	ErrAgentNotExecutable = errors.New("agent target not executable")

	// ErrDuplicateAgent indicates two descriptors share an identifier
	ErrDuplicateAgent = errors.New("duplicate agent identifier")

	// ErrInvalidDescriptor indicates a descriptor with missing fields
	ErrInvalidDescriptor = errors.New("invalid agent descriptor")
)
