package service

import "errors"

// ErrWrongState reports that a conditional status transition matched no
// row: the signal is missing or not in the state the operation requires.
// A second execute call on an already-executed signal surfaces this, which
// is what keeps sequential double settlement out.
var ErrWrongState = errors.New("signal not found or in wrong state")
