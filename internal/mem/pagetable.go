// Package mem implements the per-task page table collaborator of the
// simulator. Only the bookkeeping the task lifecycle needs lives here;
// page replacement policy is out of scope.
package mem

import (
	"fmt"

	"github.com/emirpasic/gods/maps/hashmap"
)

// PageSize is the simulated page size in bytes.
const PageSize = 4096

// PageTable maps a task's virtual pages to simulated frames. Each table is
// exclusively owned by one task and deallocated exactly once at kill.
type PageTable struct {
	taskID   int
	pages    int
	frames   *hashmap.Map // page -> frame
	released bool
}

// NewPageTable allocates a fresh, empty table for the given task covering
// an address space of 2^addressBits bytes.
func NewPageTable(taskID, addressBits int) *PageTable {
	pages := (1 << addressBits) / PageSize
	if pages < 1 {
		pages = 1
	}
	return &PageTable{
		taskID: taskID,
		pages:  pages,
		frames: hashmap.New(),
	}
}

// TaskID returns the owning task's id.
func (pt *PageTable) TaskID() int { return pt.taskID }

// Pages returns the number of virtual pages the table covers.
func (pt *PageTable) Pages() int { return pt.pages }

// Map records a page-to-frame mapping.
func (pt *PageTable) Map(page, frame int) error {
	if pt.released {
		return fmt.Errorf("page table of task %d already deallocated", pt.taskID)
	}
	if page < 0 || page >= pt.pages {
		return fmt.Errorf("page %d out of range for task %d (0..%d)", page, pt.taskID, pt.pages-1)
	}
	pt.frames.Put(page, frame)
	return nil
}

// Frame looks up the frame a page is mapped to.
func (pt *PageTable) Frame(page int) (int, bool) {
	raw, ok := pt.frames.Get(page)
	if !ok {
		return 0, false
	}
	return raw.(int), true
}

// Mapped returns the number of pages currently mapped.
func (pt *PageTable) Mapped() int { return pt.frames.Size() }

// Released reports whether DeallocatePages has run.
func (pt *PageTable) Released() bool { return pt.released }

// DeallocatePages drops every mapping and marks the table released.
// Idempotent: a second call is a no-op.
func (pt *PageTable) DeallocatePages() {
	pt.frames.Clear()
	pt.released = true
}
