package pattern

import "errors"

var (
	// ErrWouldBlock reports that a non-blocking attempt could not complete
	// now. The socket core retries it internally unless the caller asked
	// for non-blocking semantics.
	ErrWouldBlock = errors.New("pattern: operation would block")

	// ErrOptionNotRecognized reports that a layer does not know the
	// option at all. It permits fallback to the next option layer.
	ErrOptionNotRecognized = errors.New("pattern: option not recognized")

	// ErrBadValue reports that an option was recognized but its value
	// rejected. No fallback happens; the error surfaces to the caller.
	ErrBadValue = errors.New("pattern: bad option value")

	// ErrPipeRejected reports that a pipe is incompatible with the
	// pattern's membership rules.
	ErrPipeRejected = errors.New("pattern: pipe rejected")
)
