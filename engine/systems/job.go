package systems

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/spaghettifunk/setmaterial/engine/core"
	"github.com/spaghettifunk/setmaterial/engine/renderer/metadata"
)

var (
	ErrNoWorkers           = fmt.Errorf("attempting to create worker pool with less than 1 worker")
	ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
	ErrJobSystemClosed     = fmt.Errorf("job system is shut down")
)

// JobSystem runs JobTask.Run on a fixed pool of workers. Completion and
// failure callbacks are posted back to the main thread.
type JobSystem struct {
	numWorkers int
	jobQueue   chan metadata.JobTask
	wg         sync.WaitGroup

	mutex  sync.RWMutex
	closed bool

	mainThread *core.MainThread
	logger     *log.Logger
}

func NewJobSystem(numWorkers int, channelSize int, mainThread *core.MainThread, logger *log.Logger) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan metadata.JobTask, channelSize),
		mainThread: mainThread,
		logger:     logger,
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func(worker int) {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(worker, job)
			}
		}(i)
	}
}

func (js *JobSystem) run(worker int, job metadata.JobTask) {
	result, err := job.Run()
	if err != nil {
		js.logger.Debug("job failed", "job", job.Name, "worker", worker, "err", err)
		if job.OnFailure != nil {
			js.mainThread.Post(func() { job.OnFailure(err) })
		}
		return
	}
	if job.OnComplete != nil {
		js.mainThread.Post(func() { job.OnComplete(result) })
	}
}

/**
 * @brief Shuts the job system down. Queued jobs still run; their callbacks
 * are posted but only run if the main thread keeps pumping.
 */
func (js *JobSystem) Shutdown() error {
	js.mutex.Lock()
	if js.closed {
		js.mutex.Unlock()
		return nil
	}
	js.closed = true
	close(js.jobQueue)
	js.mutex.Unlock()

	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * the queue is full.
 * @param jt The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt metadata.JobTask) error {
	if jt.Run == nil {
		return fmt.Errorf("job '%s' has no Run function", jt.Name)
	}
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	if js.closed {
		return ErrJobSystemClosed
	}
	js.jobQueue <- jt
	return nil
}
