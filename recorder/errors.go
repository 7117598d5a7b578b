package recorder

import "github.com/cockroachdb/errors"

var (
	// ErrNotInitialized is returned by operations invoked without a logger.
	ErrNotInitialized = errors.New("recorder: logger not initialized")
	// ErrAlreadyInitialized is returned when a second logger is constructed.
	ErrAlreadyInitialized = errors.New("recorder: logger already initialized")
	// ErrLockFailure is returned once the logger state was left inconsistent
	// by a panic inside a critical section.
	ErrLockFailure = errors.New("recorder: logger state is poisoned")
	// ErrEmptyFrame reports a frame buffer without frames.
	ErrEmptyFrame = errors.New("recorder: frame buffer is empty")
	// ErrHostCommunication marks every failure reported by the geometry host.
	ErrHostCommunication = errors.New("recorder: host communication failed")
	// ErrSerialization is returned when a metadata document cannot be encoded.
	ErrSerialization = errors.New("recorder: serialization failed")
	// ErrClosed is returned by operations invoked after Close.
	ErrClosed = errors.New("recorder: logger closed")
)

func hostError(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrHostCommunication)
}
