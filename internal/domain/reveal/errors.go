package reveal

import "errors"

// ErrInvalidState indicates a reveal or correction was attempted against a
// record whose lifecycle state does not permit it: not yet due, inactive,
// already revealed, not revealed yet, or already corrected.
var ErrInvalidState = errors.New("invalid record state")
