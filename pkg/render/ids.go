package render

import (
	"encoding/base64"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator supplies values for auto-generated element ids. Generators
// are owned per renderer (in practice per request) - never process-global -
// so that rendering stays reproducible under test.
type IDGenerator interface {
	NextID() string
}

// UUIDGenerator produces unique ids of the form "_" followed by a compact
// url-safe encoding of a random UUID. The leading underscore keeps ids
// valid CSS identifiers even when the UUID starts with a digit.
type UUIDGenerator struct{}

// NewUUIDGenerator creates the default production generator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NextID implements IDGenerator.
func (g *UUIDGenerator) NextID() string {
	u := uuid.New()
	return "_" + base64.RawURLEncoding.EncodeToString(u[:])
}

// SequentialIDs produces "_1", "_2", ... for deterministic test output.
type SequentialIDs struct {
	n atomic.Uint64
}

// NewSequentialIDs creates a sequential generator starting at 1.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

// NextID implements IDGenerator.
func (g *SequentialIDs) NextID() string {
	return "_" + strconv.FormatUint(g.n.Add(1), 10)
}
