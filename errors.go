package metakv

import "fmt"

// DecodeError is returned when stored bytes violate the expected key or
// value layout. It means "entry unreadable", not "entry absent": absence is
// always reported through an ok bool, never an error.
type DecodeError struct {
	What string // which layout was violated, e.g. "file entry key"
	Err  error  // underlying codec error, may be nil
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s: %v", e.What, e.Err)
	}
	return fmt.Sprintf("decode %s: malformed bytes", e.What)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StoreError wraps a fault from the key-value backend with the operation
// that triggered it. Backend faults always propagate to the caller of the
// specific operation; nothing in this module retries.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
