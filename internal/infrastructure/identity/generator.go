// Package identity provides the production ID generator used by command
// handlers and sagas. Entities carry UUID strings so records created
// offline can merge without coordination.
package identity

import "github.com/google/uuid"

// Generator generates UUIDv4 identifiers.
type Generator struct{}

// NewGenerator creates a new Generator.
func NewGenerator() Generator {
	return Generator{}
}

// GenerateID generates a new unique ID.
func (Generator) GenerateID() string {
	return uuid.NewString()
}
