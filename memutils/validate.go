package memutils

// Validatable is anything with an internal consistency check. Address spaces implement it so
// that DebugValidate can run their checks after every mutation in debug builds.
type Validatable interface {
	Validate() error
}
