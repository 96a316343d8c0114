package emulator

import (
	"context"
	"errors"
	"log"
)

// QUANTUM_DEFAULT is the instruction budget of a slice.
const QUANTUM_DEFAULT = 1000

// Task is an emulator under a scheduler.
type Task struct {
	Name     string
	Emulator *Emulator
	Slices   int   // Slices run so far.
	Err      error // Runtime error that ended the task, if any.
}

// Done is true once the task's program has finished or faulted.
func (task *Task) Done() bool {
	return task.Emulator.Done()
}

// Scheduler time-slices several emulators round-robin, giving each one
// Quantum instructions per turn.
type Scheduler struct {
	Verbose bool   // If set, enables verbose logging.
	Quantum uint32 // Instructions per slice, QUANTUM_DEFAULT when zero.
	Tasks   []*Task

	names map[string]*Task
}

// Add an emulator under a unique name.
func (sch *Scheduler) Add(name string, emu *Emulator) (task *Task, err error) {
	if sch.names == nil {
		sch.names = make(map[string]*Task)
	}
	if _, ok := sch.names[name]; ok {
		err = ErrDuplicateTask
		return
	}

	task = &Task{Name: name, Emulator: emu}
	sch.names[name] = task
	sch.Tasks = append(sch.Tasks, task)

	return
}

// Task returns the named task, or nil.
func (sch *Scheduler) Task(name string) *Task {
	return sch.names[name]
}

// Pending returns the number of tasks still running.
func (sch *Scheduler) Pending() (count int) {
	for _, task := range sch.Tasks {
		if !task.Done() {
			count++
		}
	}
	return
}

// Step gives one slice to every pending task.
func (sch *Scheduler) Step() {
	quantum := sch.Quantum
	if quantum == 0 {
		quantum = QUANTUM_DEFAULT
	}

	for _, task := range sch.Tasks {
		if task.Done() {
			continue
		}

		done, err := task.Emulator.Slice(quantum)
		task.Slices++
		if err != nil {
			task.Err = err
		}
		if done && sch.Verbose {
			log.Printf("scheduler: %v: done after %d slices: %v", task.Name, task.Slices, task.Err)
		}
	}
}

// Run slices until every task is done, or ctx is cancelled. Cancellation
// is checked between rounds, so a paused task may be resumed by a later
// Run. The result joins every task error.
func (sch *Scheduler) Run(ctx context.Context) (err error) {
	doneChan := ctx.Done()

	for sch.Pending() > 0 {
		select {
		case <-doneChan:
			return ctx.Err()
		default:
		}

		sch.Step()
	}

	var errs []error
	for _, task := range sch.Tasks {
		if task.Err != nil {
			errs = append(errs, task.Err)
		}
	}

	return errors.Join(errs...)
}
