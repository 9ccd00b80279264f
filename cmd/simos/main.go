package main

import (
	"fmt"
	"log"
	"os"

	"simos/internal/fs"
	"simos/internal/sim"
	"simos/internal/task"
)

func main() {
	// Read the configuration
	path := "config.yml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg := sim.Load(path)
	fmt.Printf("Loaded config: %+v\n", cfg)

	tracer := sim.NewTracer()
	if cfg.TraceCSV != "" {
		if err := tracer.EnableCSVLogging(cfg.TraceCSV); err != nil {
			log.Fatalf("trace log: %v", err)
		}
	}
	defer tracer.Close()

	cpu := sim.NewCPU()
	fsys := fs.NewFileSystem()
	registry, err := task.NewRegistry(cfg, fsys, cpu, tracer)
	if err != nil {
		log.Fatalf("boot: %v", err)
	}

	table := sim.NewTable()
	if err := registry.InstallHandlers(table); err != nil {
		log.Fatalf("boot: %v", err)
	}
	fmt.Println(table)

	// Create two user tasks through the create trap.
	cpu.SetRegister(sim.RegCreateUser, &task.User{Name: "alice"})
	if err := table.Trap(cpu, sim.VecTaskCreate); err != nil {
		log.Fatalf("create: %v", err)
	}
	cpu.SetRegister(sim.RegCreateUser, &task.User{Name: "bob"})
	if err := table.Trap(cpu, sim.VecTaskCreate); err != nil {
		log.Fatalf("create: %v", err)
	}

	for _, t := range registry.Tasks() {
		fmt.Printf("%s user=%s priority=%d threads=%d swap=%d bytes\n",
			t, t.User(), t.Priority(), t.NumThreads(), t.SwapFile().File().Size())
	}

	// Give the first task a second thread, then kill it through the kill trap.
	victim := registry.Tasks()[0]
	cpu.SetPrivilegedMode()
	if err := victim.Spawn(); err != nil {
		log.Fatalf("spawn: %v", err)
	}
	cpu.SetUserMode()

	cpu.SetRegister(sim.RegKillTarget, victim)
	if err := table.Trap(cpu, sim.VecTaskKill); err != nil {
		log.Fatalf("kill: %v", err)
	}

	fmt.Printf("live tasks: %d\n", registry.NumTasks())
	for _, ev := range tracer.Events() {
		fmt.Printf("%s task=%d thread=%d %s\n", ev.Kind, ev.TaskID, ev.ThreadID, ev.Detail)
	}
}
