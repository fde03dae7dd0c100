//go:build debug_mem_utils

package memutils

// DebugValidate runs Validate and panics on the first inconsistency. It only does anything
// when built with the debug_mem_utils tag.
func DebugValidate(validatable Validatable) {
	err := validatable.Validate()
	if err != nil {
		panic(err)
	}
}
