package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima-gallery/engine/core"
)

// JobTask is one unit of background work.
type JobTask struct {
	Name       string
	Run        func() error
	OnFailure  func(err error)
	OnComplete func()
}

// JobSystem runs submitted tasks on a fixed set of worker goroutines.
type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup

	// read locked around sends, Shutdown write locks it to close the queue
	sendMu sync.RWMutex
	closed bool

	mu       sync.Mutex
	failures []error
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = errors.New("job system is shut down")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
	}
	js.start()
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				if err := job.Run(); err != nil {
					err = fmt.Errorf("job %s: %w", job.Name, err)
					core.LogError("%s", err.Error())
					js.mu.Lock()
					js.failures = append(js.failures, err)
					js.mu.Unlock()
					if job.OnFailure != nil {
						job.OnFailure(err)
					}
					continue
				}
				if job.OnComplete != nil {
					job.OnComplete()
				}
			}
		}()
	}
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * the queue is full.
 */
func (js *JobSystem) Submit(jt JobTask) error {
	js.sendMu.RLock()
	defer js.sendMu.RUnlock()
	if js.closed {
		return ErrJobSystemClosed
	}
	js.jobQueue <- jt
	return nil
}

/**
 * @brief Shuts the job system down, waiting for queued jobs to finish.
 * Returns every job failure joined together.
 */
func (js *JobSystem) Shutdown() error {
	js.sendMu.Lock()
	if js.closed {
		js.sendMu.Unlock()
		return nil
	}
	js.closed = true
	close(js.jobQueue)
	js.sendMu.Unlock()

	js.wg.Wait()

	js.mu.Lock()
	defer js.mu.Unlock()
	return errors.Join(js.failures...)
}
