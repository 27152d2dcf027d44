package corgi

// CorgiVersion identifies the version of the entity library.
type CorgiVersion struct {
	Major    int
	Minor    int
	Revision int
	// String is the human-readable form, e.g. "Corgi Entity Library 1.0.2".
	String string
}

var version = CorgiVersion{
	Major:    1,
	Minor:    0,
	Revision: 2,
	String:   "Corgi Entity Library 1.0.2",
}

// Version returns the version of the corgi entity library.
func Version() CorgiVersion {
	return version
}
