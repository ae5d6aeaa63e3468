// Package tasks runs small periodic jobs cooperatively from a single
// polling loop.
//
// The scheduler holds a fixed number of slots and never spawns goroutines;
// registered functions run inline from Update, which the owning loop calls
// as often as it likes. This suits single-threaded device loops such as
// periodically flushing a buffered display:
//
//	s, _ := tasks.New(nil)
//	s.Add(tasks.Task{Interval: 50 * time.Millisecond, Run: dev.Flush})
//	for {
//		// ... draw ...
//		s.Update()
//	}
package tasks

import (
	"errors"
	"time"
)

// DefaultCapacity is the number of slots a scheduler holds when Opts does
// not say otherwise.
const DefaultCapacity = 8

// Task describes one periodic job.
type Task struct {
	// Interval is the minimum time between two runs. Zero means run on
	// every Update.
	Interval time.Duration
	// RunImmediately makes the first run happen on the next Update instead
	// of a full Interval after registration.
	RunImmediately bool
	// Once deactivates the task before its first run; reactivate it with
	// Activate to run it again.
	Once bool
	// Run is the job itself. An error return deactivates nothing; it is
	// passed through to the Update caller.
	Run func() error
}

// Opts holds the scheduler options.
type Opts struct {
	// Capacity is the number of task slots. 0 means DefaultCapacity.
	Capacity int
	// Now overrides the clock. nil means time.Now.
	Now func() time.Time
}

type slot struct {
	task    Task
	lastRun time.Time
	used    bool
	active  bool
}

// Scheduler dispatches registered tasks from Update calls. It is not safe
// for concurrent use.
type Scheduler struct {
	now   func() time.Time
	slots []slot
}

// New returns a scheduler with all slots free. opts can be nil.
func New(opts *Opts) (*Scheduler, error) {
	if opts == nil {
		opts = &Opts{}
	}
	capacity := opts.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < 0 {
		return nil, errors.New("tasks: negative capacity")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{now: now, slots: make([]slot, capacity)}, nil
}

// Add registers a task in the first free slot and activates it. The
// returned id addresses the task in Remove, Activate and Deactivate.
func (s *Scheduler) Add(t Task) (int, error) {
	if t.Run == nil {
		return 0, errors.New("tasks: nil Run")
	}
	if t.Interval < 0 {
		return 0, errors.New("tasks: negative Interval")
	}
	for i := range s.slots {
		if s.slots[i].used {
			continue
		}
		lastRun := s.now()
		if t.RunImmediately {
			lastRun = lastRun.Add(-t.Interval)
		}
		s.slots[i] = slot{task: t, lastRun: lastRun, used: true, active: true}
		return i, nil
	}
	return 0, errors.New("tasks: no free slot")
}

// Remove frees the slot of a task.
func (s *Scheduler) Remove(id int) error {
	if err := s.check(id); err != nil {
		return err
	}
	s.slots[id] = slot{}
	return nil
}

// Activate resumes a deactivated task. The interval restarts from now.
func (s *Scheduler) Activate(id int) error {
	if err := s.check(id); err != nil {
		return err
	}
	if !s.slots[id].active {
		s.slots[id].active = true
		s.slots[id].lastRun = s.now()
	}
	return nil
}

// Deactivate suspends a task without freeing its slot.
func (s *Scheduler) Deactivate(id int) error {
	if err := s.check(id); err != nil {
		return err
	}
	s.slots[id].active = false
	return nil
}

// Update runs every active task whose interval has elapsed and returns the
// first error a task returned. Tasks run in slot order; a failing task does
// not stop the remaining ones from running.
func (s *Scheduler) Update() error {
	var first error
	now := s.now()
	for i := range s.slots {
		sl := &s.slots[i]
		if !sl.used || !sl.active {
			continue
		}
		if now.Sub(sl.lastRun) < sl.task.Interval {
			continue
		}
		sl.lastRun = now
		if sl.task.Once {
			sl.active = false
		}
		if err := sl.task.Run(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *Scheduler) check(id int) error {
	if id < 0 || id >= len(s.slots) || !s.slots[id].used {
		return errors.New("tasks: no such task")
	}
	return nil
}
