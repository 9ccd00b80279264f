package task

import (
	"fmt"
	"strconv"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/linkedhashset"

	"simos/internal/fs"
	"simos/internal/mem"
	"simos/internal/sim"
)

// Task is the task control block: the unit of resource ownership in the
// simulated kernel. It exclusively owns a page table, a swap file sized to
// the full addressable range, an ordered thread collection and the set of
// files opened on its behalf (the swap file included).
type Task struct {
	registry *Registry

	id            int
	user          *User
	status        Status
	nonPreemptive bool
	priority      int

	pageTable *mem.PageTable
	swapDir   *fs.Directory
	swapFile  *fs.OpenFileDescriptor

	threads      *arraylist.List // of *Thread, creation order
	nextThreadID int
	activeThread *Thread

	openFiles *linkedhashset.Set // of *fs.OpenFileDescriptor
}

// newTask constructs a task in status New with a fresh page table and a
// bound swap file, and no threads yet.
//
// Swap acquisition is reuse-or-create: the swap directory is probed for an
// entry named by the task id; a missing entry is created with size
// 2^addressBits. A leftover swap file from a crashed task with the same id
// is therefore re-adopted, not an error.
func newTask(reg *Registry, id int, user *User, nonPreemptive bool) (*Task, error) {
	t := &Task{
		registry:      reg,
		id:            id,
		user:          user,
		status:        StatusNew,
		nonPreemptive: nonPreemptive,
		pageTable:     mem.NewPageTable(id, reg.cfg.AddressBits),
		threads:       arraylist.New(),
		openFiles:     linkedhashset.New(),
	}
	if nonPreemptive {
		t.priority = -1
	}

	swapDir, err := reg.fsys.Resolve(reg.cfg.SwapDir)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", id, err)
	}
	t.swapDir = swapDir

	name := strconv.Itoa(id)
	size := int64(1) << reg.cfg.AddressBits
	file := swapDir.Lookup(name)
	if file == nil {
		file, err = swapDir.NewFile(name, size)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", id, err)
		}
	}
	t.swapFile = file.Open(t)
	t.AddOpenFile(t.swapFile)
	t.trace(sim.Event{Kind: sim.EventFileOpen, TaskID: id, ThreadID: -1, Detail: name})

	return t, nil
}

func (t *Task) String() string {
	return fmt.Sprintf("Task %d(%s)", t.id, t.status)
}

// ID returns the task id, unique among live tasks.
func (t *Task) ID() int { return t.id }

// User returns the owning principal.
func (t *Task) User() *User { return t.user }

// Status returns the task's lifecycle status.
func (t *Task) Status() Status { return t.status }

// NonPreemptive reports whether the task is a latency-critical kernel task
// the scheduler must not preempt.
func (t *Task) NonPreemptive() bool { return t.nonPreemptive }

// Priority returns the task's priority: -1 for non-preemptive tasks, 0
// otherwise. Fixed at construction.
func (t *Task) Priority() int { return t.priority }

// PageTable returns the task's page table.
func (t *Task) PageTable() *mem.PageTable { return t.pageTable }

// SwapFile returns the open descriptor of the task's swap file.
func (t *Task) SwapFile() *fs.OpenFileDescriptor { return t.swapFile }

// advance moves the task to the given status, enforcing
// New -> Ready -> Killed with Killed terminal.
func (t *Task) advance(to Status) error {
	if !allowedTransition(t.status, to) {
		return lifecyclef(ErrBadTransition, "task %d: %s -> %s", t.id, t.status, to)
	}
	t.status = to
	return nil
}

// Spawn adds one new thread to the task. The thread takes the task's current
// thread-id counter and inherits the non-preemptive flag. At the thread
// capacity limit the call is a silent no-op; callers that care check
// NumThreads first. Spawning on a killed task is an error.
func (t *Task) Spawn() error {
	if t.status == StatusKilled {
		return lifecyclef(ErrTaskKilled, "spawn on task %d", t.id)
	}
	if t.threads.Size() >= t.registry.cfg.MaxThreads {
		return nil
	}
	th := NewThread(t.nextThreadID, t, t.nonPreemptive)
	t.AddThread(th)
	t.nextThreadID++
	t.registry.cpu.RequestReschedule()
	t.trace(sim.Event{Kind: sim.EventThreadSpawn, TaskID: t.id, ThreadID: th.id})
	t.trace(sim.Event{Kind: sim.EventReschedule, TaskID: t.id, ThreadID: th.id})
	return nil
}

// kill tears the task down. Only the kill trap handler (Registry.KillTask)
// calls this; it is not a public teardown path.
//
// Order matters: threads die first, then open files close, then the page
// table is deallocated, and last the swap directory entry is removed. The
// swap descriptor itself was already closed as a member of the open-file
// collection. Thread kill and descriptor close both self-deregister from
// the collection being walked, so both walks run over a snapshot in reverse
// creation order, visiting every element exactly once.
func (t *Task) kill() error {
	if t.status == StatusKilled {
		return lifecyclef(ErrTaskKilled, "kill on task %d", t.id)
	}
	if err := t.advance(StatusKilled); err != nil {
		return err
	}
	t.registry.deregister(t)

	threads := t.threads.Values()
	for i := len(threads) - 1; i >= 0; i-- {
		threads[i].(*Thread).Kill()
	}

	files := t.openFiles.Values()
	for i := len(files) - 1; i >= 0; i-- {
		d := files[i].(*fs.OpenFileDescriptor)
		if err := d.Close(); err != nil {
			return fmt.Errorf("task %d: close %s: %w", t.id, d.File().Name(), err)
		}
		t.trace(sim.Event{Kind: sim.EventFileClose, TaskID: t.id, ThreadID: -1, Detail: d.File().Name()})
	}

	t.pageTable.DeallocatePages()
	t.trace(sim.Event{Kind: sim.EventPageRelease, TaskID: t.id, ThreadID: -1})

	if err := t.swapDir.Remove(strconv.Itoa(t.id)); err != nil {
		return fmt.Errorf("task %d: %w", t.id, err)
	}
	t.trace(sim.Event{Kind: sim.EventTaskKill, TaskID: t.id, ThreadID: -1})
	return nil
}

// NumThreads returns the number of live threads.
func (t *Task) NumThreads() int { return t.threads.Size() }

// Threads returns the thread collection in creation order.
func (t *Task) Threads() []*Thread {
	vals := t.threads.Values()
	out := make([]*Thread, len(vals))
	for i, v := range vals {
		out[i] = v.(*Thread)
	}
	return out
}

// AddThread appends a thread. Callers are trusted not to double-add.
func (t *Task) AddThread(th *Thread) {
	t.threads.Add(th)
}

// RemoveThread removes a thread from the collection. Removing an absent
// thread is a no-op. Removing the active thread clears the active-thread
// reference first, so the reference never dangles.
func (t *Task) RemoveThread(th *Thread) {
	idx := t.threads.IndexOf(th)
	if idx < 0 {
		return
	}
	if th == t.activeThread {
		t.activeThread = nil
	}
	t.threads.Remove(idx)
}

// Thread looks a thread up by id. Returns nil if the task has no such
// thread.
func (t *Task) Thread(id int) *Thread {
	it := t.threads.Iterator()
	for it.Next() {
		if th := it.Value().(*Thread); th.ID() == id {
			return th
		}
	}
	return nil
}

// ActiveThread returns the currently-executing thread, or nil.
func (t *Task) ActiveThread() *Thread { return t.activeThread }

// SetActiveThread selects the thread the scheduler is running. nil always
// succeeds. A non-nil thread must be a member of this task's collection;
// anything else is a contract violation and fails loudly, because silently
// accepting it would leave the task pointing at a thread it does not own.
func (t *Task) SetActiveThread(th *Thread) error {
	if th == nil {
		t.activeThread = nil
		return nil
	}
	if t.threads.IndexOf(th) < 0 {
		return lifecyclef(ErrThreadNotOwned, "thread %d does not belong to task %d", th.ID(), t.id)
	}
	t.activeThread = th
	return nil
}

// AddOpenFile records a descriptor opened on behalf of this task.
// Idempotent: re-adding a present descriptor leaves the set unchanged.
func (t *Task) AddOpenFile(d *fs.OpenFileDescriptor) {
	if t.openFiles.Contains(d) {
		return
	}
	t.openFiles.Add(d)
}

// RemoveOpenFile drops a descriptor from the open-file set. Removing an
// absent descriptor is a no-op.
func (t *Task) RemoveOpenFile(d *fs.OpenFileDescriptor) {
	t.openFiles.Remove(d)
}

// OpenFiles returns the open descriptors in insertion order.
func (t *Task) OpenFiles() []*fs.OpenFileDescriptor {
	vals := t.openFiles.Values()
	out := make([]*fs.OpenFileDescriptor, len(vals))
	for i, v := range vals {
		out[i] = v.(*fs.OpenFileDescriptor)
	}
	return out
}

func (t *Task) trace(ev sim.Event) {
	t.registry.tracer.Emit(ev)
}
