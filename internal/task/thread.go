package task

import "simos/internal/sim"

// Thread is one unit of execution owned by exactly one task. Thread ids are
// unique within the owning task for the task's whole lifetime.
type Thread struct {
	id            int
	owner         *Task
	nonPreemptive bool
	killed        bool
}

// NewThread constructs a thread for the given owner. The thread is not added
// to the owner's collection here; Spawn does that.
func NewThread(id int, owner *Task, nonPreemptive bool) *Thread {
	return &Thread{id: id, owner: owner, nonPreemptive: nonPreemptive}
}

// ID returns the thread's id within its task.
func (th *Thread) ID() int { return th.id }

// Owner returns the owning task.
func (th *Thread) Owner() *Task { return th.owner }

// NonPreemptive reports the flag inherited from the owning task.
func (th *Thread) NonPreemptive() bool { return th.nonPreemptive }

// Killed reports whether the thread has been killed.
func (th *Thread) Killed() bool { return th.killed }

// Kill destroys the thread and removes it from the owner's thread
// collection. The self-deregistration is why task teardown iterates the
// thread collection in reverse. Killing a dead thread is a no-op.
func (th *Thread) Kill() {
	if th.killed {
		return
	}
	th.killed = true
	th.owner.RemoveThread(th)
	th.owner.trace(sim.Event{
		Kind:     sim.EventThreadKill,
		TaskID:   th.owner.ID(),
		ThreadID: th.id,
	})
}
