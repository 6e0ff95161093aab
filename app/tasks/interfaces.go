package tasks

// TaskSchedulerInterface defines the interface for task scheduling
// operations: queue management and worker pool control. API handlers
// use it to hand work (like saved-article content extraction) to the
// background workers.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
