// Package ids generates unique 64-bit identifiers for storage keys.
//
// Layout: 1 unused sign bit, 40 bits of milliseconds since the custom epoch,
// 8 bits of node ID and 15 bits of per-millisecond sequence. Keeping the sign
// bit zero means every ID is a positive int64 in SQLite and Postgres.
package ids

import (
	"fmt"
	"sync"
	"time"
)

const (
	timestampBits = 40
	nodeBits      = 8
	stepBits      = 15

	maxNode = 1<<nodeBits - 1
	maxStep = 1<<stepBits - 1

	nodeShift      = stepBits
	timestampShift = nodeBits + stepBits
)

// epoch is 2025-01-01 00:00:00 UTC in milliseconds.
const epoch = 1735689600000

// Generator produces unique int64 IDs. Safe for concurrent use.
type Generator struct {
	node int64
	now  func() time.Time

	mu       sync.Mutex
	lastMill int64
	step     int64
}

// NewGenerator constructs a Generator for the given node (0-255).
func NewGenerator(node int64) (*Generator, error) {
	if node < 0 || node > maxNode {
		return nil, fmt.Errorf("ids: node %d out of range 0-%d", node, maxNode)
	}
	return &Generator{node: node, now: time.Now}, nil
}

// Next returns the next identifier. When the per-millisecond sequence is
// exhausted it spins until the clock advances.
func (g *Generator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UnixMilli() - epoch
	if now < g.lastMill {
		// Clock moved backwards; keep issuing from the last seen millisecond
		// so an already-used (timestamp, step) pair is never re-emitted.
		now = g.lastMill
	}
	if now == g.lastMill {
		g.step++
		if g.step > maxStep {
			for now <= g.lastMill {
				now = g.now().UnixMilli() - epoch
			}
			g.step = 0
		}
	} else {
		g.step = 0
	}
	g.lastMill = now

	return now<<timestampShift | g.node<<nodeShift | g.step
}

var (
	defaultOnce sync.Once
	defaultGen  *Generator
)

// Next returns an ID from the process-wide default generator (node 0).
func Next() int64 {
	defaultOnce.Do(func() {
		defaultGen, _ = NewGenerator(0)
	})
	return defaultGen.Next()
}
