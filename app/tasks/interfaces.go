package tasks

// SchedulerInterface defines the lifecycle and status surface of the
// crawl scheduler. Start is idempotent; Stop waits for an in-flight
// tick to finish but does not cancel it.
type SchedulerInterface interface {
	Start()
	Stop()
	Status() Status
	IsRunning() bool
}
