package binfmt

import "errors"

// ErrCorruptHeader is returned when a file's fingerprint fails its CRC-8
// check or carries a magic tag the caller didn't ask for.
var ErrCorruptHeader = errors.New("binfmt: corrupt or unexpected file header")

// ErrIO is returned when a read fails even after the single retry that
// Reader performs on a transient error.
var ErrIO = errors.New("binfmt: io error")
