// Package task implements the simulator's task control block and the
// privileged system calls that create and destroy tasks.
//
// A Task owns a page table, a swap file sized to the full addressable
// range, an ordered collection of threads and a set of open file
// descriptors. Tasks are created and killed only through traps: the
// interrupt layer raises a vector, the registry's handler runs in
// privileged mode, mutates task state synchronously and restores user mode
// before returning. Privileged mode is the mutual-exclusion mechanism of
// the simulation; nothing here locks or blocks.
package task
