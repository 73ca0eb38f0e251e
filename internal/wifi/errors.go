package wifi

import "fmt"

// AssociationError reports an exhausted association procedure.
type AssociationError struct {
	// Attempts is how many full attempts were made.
	Attempts int
	// LastStatus is the final status observed before giving up.
	LastStatus LinkStatus
}

func (e *AssociationError) Error() string {
	return fmt.Sprintf("wifi: association failed after %d attempts (last status %s)",
		e.Attempts, e.LastStatus)
}
