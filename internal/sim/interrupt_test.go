package sim

import (
	"strings"
	"testing"
)

func TestTable_Trap_DispatchesInPrivilegedMode(t *testing.T) {
	tbl := NewTable()
	c := NewCPU()

	var sawMode Mode
	calls := 0
	err := tbl.Install(VecTaskCreate, func(c *CPU) error {
		calls++
		sawMode = c.Mode()
		c.SetUserMode()
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tbl.Trap(c, VecTaskCreate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected handler invoked once, got %d", calls)
	}
	if sawMode != PrivilegedMode {
		t.Fatalf("handler should run privileged, saw %s", sawMode)
	}
	if c.Mode() != UserMode {
		t.Fatalf("handler restored user mode, CPU shows %s", c.Mode())
	}
}

func TestTable_Install_DuplicateVector_Fails(t *testing.T) {
	tbl := NewTable()
	h := func(*CPU) error { return nil }

	if err := tbl.Install(VecTaskKill, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tbl.Install(VecTaskKill, h); err == nil {
		t.Fatalf("expected error on duplicate install")
	}
}

func TestTable_Trap_UnknownVector_Fails(t *testing.T) {
	tbl := NewTable()
	c := NewCPU()

	if err := tbl.Trap(c, VecTaskKill); err == nil {
		t.Fatalf("expected error on unhandled vector")
	}
	if c.Mode() != UserMode {
		t.Fatalf("failed dispatch must not leave the CPU privileged")
	}
}

func TestTable_String_ListsInstalledVectors(t *testing.T) {
	tbl := NewTable()
	tbl.Install(VecTaskCreate, func(*CPU) error { return nil })
	tbl.Install(VecTaskKill, func(*CPU) error { return nil })

	s := tbl.String()
	if !strings.Contains(s, "TaskCreate") || !strings.Contains(s, "TaskKill") {
		t.Fatalf("table dump missing vectors: %q", s)
	}
}
