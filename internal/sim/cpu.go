package sim

import "fmt"

// Mode is the simulated CPU privilege mode.
type Mode int

const (
	UserMode Mode = iota
	PrivilegedMode
)

func (m Mode) String() string {
	switch m {
	case UserMode:
		return "user"
	case PrivilegedMode:
		return "privileged"
	default:
		return "unknown"
	}
}

// Register numbers a simulated general-purpose register.
type Register int

// System-call calling convention. Arguments to the task traps are passed in
// fixed registers before the trap is raised.
const (
	RegKillTarget Register = 1 // kill: the task to destroy
	RegCreateUser Register = 6 // create: the requesting user
)

// NumRegisters is the size of the general-purpose register file.
const NumRegisters = 8

// CPU is the simulated processor. It holds the privilege mode, the general
// register file and the reschedule-needed flag. The simulation is
// single-threaded and cooperative, so no locking is involved: all mutation
// happens synchronously inside one trap.
type CPU struct {
	mode       Mode
	regs       [NumRegisters]any
	reschedule bool
}

// NewCPU returns a CPU in user mode with a cleared register file.
func NewCPU() *CPU {
	return &CPU{mode: UserMode}
}

// Mode returns the current privilege mode.
func (c *CPU) Mode() Mode { return c.mode }

// SetPrivilegedMode switches the CPU to privileged mode.
func (c *CPU) SetPrivilegedMode() { c.mode = PrivilegedMode }

// SetUserMode switches the CPU back to user mode.
func (c *CPU) SetUserMode() { c.mode = UserMode }

// Register reads a general-purpose register. Reading an out-of-range
// register is a wiring bug in the caller, not a recoverable condition.
func (c *CPU) Register(r Register) any {
	if r < 0 || r >= NumRegisters {
		panic(fmt.Sprintf("sim: register %d out of range", r))
	}
	return c.regs[r]
}

// SetRegister writes a general-purpose register.
func (c *CPU) SetRegister(r Register, v any) {
	if r < 0 || r >= NumRegisters {
		panic(fmt.Sprintf("sim: register %d out of range", r))
	}
	c.regs[r] = v
}

// RequestReschedule raises the reschedule-needed flag. The external
// scheduler polls and clears it.
func (c *CPU) RequestReschedule() { c.reschedule = true }

// RescheduleNeeded reports whether a reschedule has been requested.
func (c *CPU) RescheduleNeeded() bool { return c.reschedule }

// ClearReschedule lowers the reschedule-needed flag.
func (c *CPU) ClearReschedule() { c.reschedule = false }
