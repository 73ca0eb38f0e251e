package credentials

import "errors"

// Domain-specific errors for credential resolution.
var (
	// ErrNotProvisioned is returned when the persisted store holds no
	// credentials row yet.
	ErrNotProvisioned = errors.New("credentials: store not provisioned")
)
