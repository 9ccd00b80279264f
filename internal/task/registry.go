package task

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"

	"simos/internal/fs"
	"simos/internal/sim"
)

// Registry is the base task layer: it issues unique task ids, tracks the
// live-task table and owns the create/kill system-call entry points.
type Registry struct {
	cfg    sim.Config
	fsys   *fs.FileSystem
	cpu    *sim.CPU
	tracer *sim.Tracer

	tasks  *treemap.Map // id -> *Task
	nextID int
}

// NewRegistry builds a registry and makes sure the swap directory exists.
func NewRegistry(cfg sim.Config, fsys *fs.FileSystem, cpu *sim.CPU, tracer *sim.Tracer) (*Registry, error) {
	if _, err := fsys.MkdirAll(cfg.SwapDir); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	return &Registry{
		cfg:    cfg,
		fsys:   fsys,
		cpu:    cpu,
		tracer: tracer,
		tasks:  treemap.NewWithIntComparator(),
	}, nil
}

// InstallHandlers installs the create and kill traps into the interrupt
// table. Called once at boot.
func (r *Registry) InstallHandlers(tbl *sim.Table) error {
	err := tbl.Install(sim.VecTaskCreate, func(c *sim.CPU) error {
		_, err := r.Create(c, false)
		return err
	})
	if err != nil {
		return err
	}
	return tbl.Install(sim.VecTaskKill, r.KillTask)
}

// NumTasks returns the live-task count.
func (r *Registry) NumTasks() int { return r.tasks.Size() }

// MaxTasks returns the configured live-task capacity.
func (r *Registry) MaxTasks() int { return r.cfg.MaxTasks }

// Task looks a live task up by id.
func (r *Registry) Task(id int) *Task {
	raw, ok := r.tasks.Get(id)
	if !ok {
		return nil
	}
	return raw.(*Task)
}

// Tasks returns the live tasks ordered by id.
func (r *Registry) Tasks() []*Task {
	vals := r.tasks.Values()
	out := make([]*Task, len(vals))
	for i, v := range vals {
		out[i] = v.(*Task)
	}
	return out
}

// uniqueTaskID issues the next task id. Ids are never reissued while the
// registry lives, so a live task's id is unique for its whole lifetime.
func (r *Registry) uniqueTaskID() int {
	id := r.nextID
	r.nextID++
	return id
}

func (r *Registry) register(t *Task) error {
	if _, dup := r.tasks.Get(t.ID()); dup {
		return fmt.Errorf("task %d already registered", t.ID())
	}
	r.tasks.Put(t.ID(), t)
	return nil
}

func (r *Registry) deregister(t *Task) {
	r.tasks.Remove(t.ID())
}

// mustPrivileged is the system-call precondition: a trap entry point running
// outside privileged mode is a simulation-level failure, not a recoverable
// error.
func mustPrivileged(c *sim.CPU, op string) {
	if c.Mode() != sim.PrivilegedMode {
		panic(fmt.Sprintf("task: %s invoked in %s mode, privileged mode required", op, c.Mode()))
	}
}

// Create is the task-creation system call. It must run in privileged mode
// (the trap dispatcher guarantees that for the installed handler).
//
// At the live-task capacity limit no task is created and (nil, nil) is
// returned; the capacity check runs before any allocation so a full table
// never leaks a partially-built task. Otherwise the requesting user is read
// from its argument register, a task is constructed, registered, given its
// first thread and advanced to Ready. User mode is restored on every path
// out.
func (r *Registry) Create(c *sim.CPU, nonPreemptive bool) (*Task, error) {
	mustPrivileged(c, "Create")
	defer c.SetUserMode()

	if r.tasks.Size() >= r.cfg.MaxTasks {
		return nil, nil
	}

	user, _ := c.Register(sim.RegCreateUser).(*User)
	id := r.uniqueTaskID()
	t, err := newTask(r, id, user, nonPreemptive)
	if err != nil {
		return nil, err
	}
	if err := r.register(t); err != nil {
		return nil, err
	}
	if err := t.Spawn(); err != nil {
		return nil, err
	}
	if err := t.advance(StatusReady); err != nil {
		return nil, err
	}
	r.tracer.Emit(sim.Event{Kind: sim.EventTaskCreate, TaskID: id, ThreadID: -1, Detail: user.String()})
	return t, nil
}

// KillTask is the task-destruction system call. The target task is read
// from its argument register; an empty register is a no-op. User mode is
// restored unconditionally, whether or not a task was present.
func (r *Registry) KillTask(c *sim.CPU) error {
	mustPrivileged(c, "KillTask")
	defer c.SetUserMode()

	t, _ := c.Register(sim.RegKillTarget).(*Task)
	if t == nil {
		return nil
	}
	return t.kill()
}
