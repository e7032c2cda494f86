package stage

import "fmt"

// UnsupportedStageError is returned when a stage is not in the catalog, or
// when it is asked for a naming chain it does not have.
type UnsupportedStageError struct {
	Stage  Name
	Reason string
}

// Error implements the error interface for UnsupportedStageError.
func (e *UnsupportedStageError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unsupported stage %q", string(e.Stage))
	}
	return fmt.Sprintf("unsupported stage %q: %s", string(e.Stage), e.Reason)
}

// MissingWildcardError is returned when a stage's file names embed a
// wildcard that the caller left empty.
type MissingWildcardError struct {
	Stage    Name
	Wildcard string
}

// Error implements the error interface for MissingWildcardError.
func (e *MissingWildcardError) Error() string {
	return fmt.Sprintf("stage %q requires wildcard %q", string(e.Stage), e.Wildcard)
}

// PathCollisionError reports two distinct subjects resolving to the same
// output path.
type PathCollisionError struct {
	Path   string
	First  string
	Second string
}

// Error implements the error interface for PathCollisionError.
func (e *PathCollisionError) Error() string {
	return fmt.Sprintf("path collision: %s is produced by both %s and %s", e.Path, e.First, e.Second)
}
