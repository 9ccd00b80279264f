package sim

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
)

// Vector identifies a trap in the interrupt table.
type Vector int

const (
	VecTaskCreate Vector = iota
	VecTaskKill
)

func (v Vector) String() string {
	switch v {
	case VecTaskCreate:
		return "TaskCreate"
	case VecTaskKill:
		return "TaskKill"
	default:
		return fmt.Sprintf("Vector(%d)", int(v))
	}
}

// Handler is a trap entry point. Handlers run in privileged mode and are
// responsible for restoring user mode before returning.
type Handler func(*CPU) error

// Table is the interrupt table: it associates trap vectors with their
// handlers. Handlers are installed once at boot.
type Table struct {
	handlers *treemap.Map // int(Vector) -> Handler
}

// NewTable returns an empty interrupt table.
func NewTable() *Table {
	return &Table{handlers: treemap.NewWithIntComparator()}
}

// Install associates a handler with a vector. Installing the same vector
// twice is a boot wiring bug and is rejected.
func (t *Table) Install(v Vector, h Handler) error {
	if _, dup := t.handlers.Get(int(v)); dup {
		return fmt.Errorf("vector %s already installed", v)
	}
	t.handlers.Put(int(v), h)
	return nil
}

// Trap dispatches a trap: it switches the CPU to privileged mode and invokes
// the installed handler synchronously. The handler restores user mode itself
// as part of the system-call protocol; Trap does not touch the mode on the
// way out.
func (t *Table) Trap(c *CPU, v Vector) error {
	raw, ok := t.handlers.Get(int(v))
	if !ok {
		return fmt.Errorf("no handler installed for vector %s", v)
	}
	c.SetPrivilegedMode()
	return raw.(Handler)(c)
}

// String dumps the installed vectors, suitable for the boot log.
func (t *Table) String() string {
	var b strings.Builder
	b.WriteString("interrupt table:")
	it := t.handlers.Iterator()
	for it.Next() {
		fmt.Fprintf(&b, " [%d]=%s", it.Key().(int), Vector(it.Key().(int)))
	}
	return b.String()
}
