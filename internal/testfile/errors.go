package testfile

import "fmt"

// ParseError wraps a YAML decode failure for one test file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.Path, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// UndefinedAssertionRef reports a scenario's assertion-name reference that
// is not present in the file-level named-assertion map.
type UndefinedAssertionRef struct {
	Name     string
	Scenario string
}

func (e *UndefinedAssertionRef) Error() string {
	return fmt.Sprintf("undefined assertion reference %q in scenario %q", e.Name, e.Scenario)
}

// DuplicateAssertionIdInScenario reports the same assertion id used twice
// within one list (required or golden) of one scenario.
type DuplicateAssertionIdInScenario struct {
	ID       string
	Scenario string
}

func (e *DuplicateAssertionIdInScenario) Error() string {
	return fmt.Sprintf("duplicate assertion id %q in scenario %q", e.ID, e.Scenario)
}

// EmptyPromptError reports a blank or whitespace-only prompt.
type EmptyPromptError struct {
	Scenario string
}

func (e *EmptyPromptError) Error() string {
	return fmt.Sprintf("empty prompt in scenario %q", e.Scenario)
}

// FileRefOutsideSkillTests reports a {file: ...} reference that escapes the
// skill's skill-tests/ root once canonicalised.
type FileRefOutsideSkillTests struct {
	Path string
}

func (e *FileRefOutsideSkillTests) Error() string {
	return fmt.Sprintf("file reference %q is outside the skill-tests directory", e.Path)
}

// CircularReference reports a {file: ...} chain that revisits a path
// already seen while resolving one test case.
type CircularReference struct {
	Path string
}

func (e *CircularReference) Error() string {
	return fmt.Sprintf("circular file reference detected: %s", e.Path)
}

// DuplicateAssertionId reports the same id appearing twice in one test
// case's flattened assertion sequence (list shape).
type DuplicateAssertionId struct {
	ID            string
	TestID        string
	FirstSource   string
	SecondSource  string
}

func (e *DuplicateAssertionId) Error() string {
	return fmt.Sprintf("duplicate assertion id %q in test %q: first defined in %s, redefined in %s",
		e.ID, e.TestID, e.FirstSource, e.SecondSource)
}

// UnknownFormatError reports a test file that is neither a YAML sequence
// (list shape) nor a mapping carrying a scenarios key (scenarios shape).
type UnknownFormatError struct {
	Path string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("%s is neither a list-shape nor a scenarios-shape test file", e.Path)
}
