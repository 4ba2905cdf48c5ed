package entities

// LoadStatus is the successful outcome of loading one library.
type LoadStatus int

const (
	// StatusLoaded means a new module record was created.
	StatusLoaded LoadStatus = iota
	// StatusAlreadyLoaded means the library was already registered; the
	// redundant handle was closed.
	StatusAlreadyLoaded
)

func (s LoadStatus) String() string {
	if s == StatusAlreadyLoaded {
		return "already-loaded"
	}
	return "loaded"
}
