// Package identity provides slide id generators.
package identity

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

// UUIDGenerator issues random ids of the form "slide-<uuid>"
type UUIDGenerator struct {
	prefix string
}

// NewUUIDGenerator creates a random id generator
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{prefix: "slide-"}
}

// NewID implements ports.IDGenerator
func (g *UUIDGenerator) NewID() string {
	return g.prefix + uuid.NewString()
}

// SequenceGenerator issues strictly increasing ids "<prefix><n>" starting
// at 1. It is safe for concurrent use.
type SequenceGenerator struct {
	prefix string
	next   atomic.Uint64
}

// NewSequenceGenerator creates a monotonic id generator
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// NewID implements ports.IDGenerator
func (g *SequenceGenerator) NewID() string {
	return g.prefix + strconv.FormatUint(g.next.Add(1), 10)
}

var (
	_ ports.IDGenerator = (*UUIDGenerator)(nil)
	_ ports.IDGenerator = (*SequenceGenerator)(nil)
)
