package domain

// LifecycleState is the single source of truth for whether the wordbook
// store is safe to query or mutate. There is exactly one state value per
// service instance and transitions are compare-and-set guarded.
type LifecycleState int

const (
	// Uninitialized is the state before initialization has been requested.
	Uninitialized LifecycleState = iota

	// Initializing covers migration, driver lookup and schema creation.
	Initializing

	// Running means the store is open and data operations are allowed.
	Running

	// NoDriver means no usable database driver was found. Leaving this
	// state requires an explicit driver download request.
	NoDriver

	// DownloadingDriver means a driver artifact download is in flight.
	DownloadingDriver

	// InitializationError means initialization failed after the driver
	// stage. A new initialization request may be made from here.
	InitializationError
)

// String implements fmt.Stringer.
func (s LifecycleState) String() string {
	switch s {
	case Uninitialized:
		return "UNINITIALIZED"
	case Initializing:
		return "INITIALIZING"
	case Running:
		return "RUNNING"
	case NoDriver:
		return "NO_DRIVER"
	case DownloadingDriver:
		return "DOWNLOADING_DRIVER"
	case InitializationError:
		return "INITIALIZATION_ERROR"
	default:
		return "UNKNOWN"
	}
}
