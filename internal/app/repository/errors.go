package repository

import "errors"

// ErrStatusConflict is returned when a conditional status update finds the
// record in a status it may not move from.
var ErrStatusConflict = errors.New("status does not allow this change")
