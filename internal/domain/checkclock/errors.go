package checkclock

import "errors"

var (
	ErrCheckClockNotFound = errors.New("check clock not found")
	ErrAlreadyCheckedIn   = errors.New("employee already checked in today")
	ErrAlreadyCheckedOut  = errors.New("employee already checked out today")
	ErrCheckInRequired    = errors.New("employee must check in before checking out")
	ErrMultipleCheckOuts  = errors.New("more than one check-out recorded for the same day")
	ErrAlreadyDecided     = errors.New("check clock has already been rejected")
	ErrBranchNotFound     = errors.New("branch not found")
)
