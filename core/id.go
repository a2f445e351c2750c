package core

import "github.com/google/uuid"

// NewID returns a fresh opaque identifier suitable for operation_id or
// correlation_id. Grounded on the teacher's own core.NewID (uuid.NewString)
// convention for event identifiers.
func NewID() string { return uuid.NewString() }
