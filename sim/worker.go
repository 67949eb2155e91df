package sim

import "fmt"

// Worker processes one package at a time for a fixed duration, pulling work
// from an unbounded input queue and forwarding finished packages.
type Worker struct {
	PackageSender
	id                 ElementID
	processingDuration TimeOffset
	queue              Queue
	working            *Package
	startTime          Time
}

// NewWorker creates a worker with the given input queue.
// Panics if processingDuration < 1 or queue is nil; Factory.AddWorker
// validates first.
func NewWorker(id ElementID, processingDuration TimeOffset, queue Queue, pg ProbabilityGenerator) *Worker {
	if processingDuration < 1 {
		panic(fmt.Sprintf("NewWorker: processingDuration must be >= 1, got %d", processingDuration))
	}
	if queue == nil {
		panic("NewWorker: queue must not be nil")
	}
	return &Worker{
		PackageSender:      newPackageSender(pg),
		id:                 id,
		processingDuration: processingDuration,
		queue:              queue,
	}
}

func (w *Worker) ID() ElementID { return w.id }
func (w *Worker) Ref() NodeRef  { return WorkerRef(w.id) }

// ProcessingDuration returns the number of turns one package takes.
func (w *Worker) ProcessingDuration() TimeOffset { return w.processingDuration }

// ProcessingStartTime returns the turn the current package started.
func (w *Worker) ProcessingStartTime() Time { return w.startTime }

// Queue returns the worker's input queue.
func (w *Worker) Queue() Queue { return w.queue }

// ProcessingBuffer returns the package being worked on, if any.
func (w *Worker) ProcessingBuffer() (Package, bool) {
	if w.working == nil {
		return Package{}, false
	}
	return *w.working, true
}

// ReceivePackage enqueues p. The queue is unbounded.
func (w *Worker) ReceivePackage(p Package) {
	w.queue.Push(p)
}

// Items returns the queued packages oldest first.
func (w *Worker) Items() []Package {
	return w.queue.Items()
}

// DoWork advances the worker's state machine for turn t:
//   - idle with queued work: start the next package at t
//   - busy and t - start + 1 >= duration: move the package to the sending
//     buffer and immediately start the next queued package at t
//
// Completion waits while the sending buffer is still occupied.
// Returns the package that completed this turn, if any.
func (w *Worker) DoWork(t Time) (Package, bool) {
	if w.working == nil {
		if !w.queue.Empty() {
			w.startNext(t)
		}
		return Package{}, false
	}
	if TimeOffset(t-w.startTime+1) < w.processingDuration || w.bufferFull() {
		return Package{}, false
	}
	done := *w.working
	w.pushPackage(done)
	w.working = nil
	if !w.queue.Empty() {
		w.startNext(t)
	}
	return done, true
}

func (w *Worker) startNext(t Time) {
	p, err := w.queue.Pop()
	if err != nil {
		panic(fmt.Sprintf("Worker.startNext: %v", err))
	}
	w.working = &p
	w.startTime = t
}

// heldPackages returns every package the worker owns.
func (w *Worker) heldPackages() []Package {
	var held []Package
	if p, ok := w.SendingBuffer(); ok {
		held = append(held, p)
	}
	if w.working != nil {
		held = append(held, *w.working)
	}
	return append(held, w.queue.Items()...)
}
