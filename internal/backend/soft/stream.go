package soft

import "sync"

// stream executes submitted kernels one at a time, in submission order,
// on its own goroutine.
type stream struct {
	tasks chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

func newStream() *stream {
	s := &stream{tasks: make(chan func(), 8)}
	go s.run()
	return s
}

func (s *stream) run() {
	for task := range s.tasks {
		task()
		s.wg.Done()
	}
}

// submit enqueues task and returns immediately.
func (s *stream) submit(task func()) {
	s.wg.Add(1)
	s.tasks <- task
}

// wait blocks until every submitted task has finished.
func (s *stream) wait() {
	s.wg.Wait()
}

// close drains the stream and stops its goroutine.
func (s *stream) close() {
	s.once.Do(func() {
		s.wait()
		close(s.tasks)
	})
}
