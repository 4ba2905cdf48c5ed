package ports

// Environment retrieves host configuration variables.
type Environment interface {
	// Lookup returns the value of the named variable and whether it is set.
	Lookup(name string) (string, bool)
}
