package document

import "fmt"

// NotFoundError reports a missing input file or folder.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

// InvalidArgumentError reports a caller-supplied value the pipeline cannot
// accept, such as an unknown preprocess mode or an empty language code.
type InvalidArgumentError struct {
	Field string
	Value string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// EngineError reports that the external OCR engine was unreachable,
// misconfigured, or returned a fatal error. It always wraps the underlying
// cause so engine failures stay distinguishable from empty output.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("ocr engine: %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// NoTextError is the strict-mode signal for a combine batch in which every
// candidate section came back empty.
type NoTextError struct {
	Path string
}

func (e *NoTextError) Error() string {
	return fmt.Sprintf("no text extracted for %s", e.Path)
}

// WriteError reports that an output file or directory could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
