package driven

// Dispatcher is the serialized callback queue used for all observer
// notifications. Callbacks submitted to it never run concurrently and are
// executed in submission order, so observers need no locking of their own.
type Dispatcher interface {
	// Sync runs fn on the queue and blocks until it has returned.
	Sync(fn func())
}
