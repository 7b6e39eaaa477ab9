package v1

var (
	// common errors
	ErrSuccess             = newError(0, "ok")
	ErrBadRequest          = newError(400, "bad request")
	ErrUnauthorized        = newError(401, "unauthorized")
	ErrNotFound            = newError(404, "not found")
	ErrInternalServerError = newError(500, "internal server error")

	// rental errors
	ErrDuplicateName     = newError(3001, "rental name already in use")
	ErrProviderFailure   = newError(3002, "cloud provider failure")
	ErrInconsistentState = newError(3003, "provisioning left inconsistent state")
	ErrPasswordMismatch  = newError(3004, "password mismatch")
	ErrKindMismatch      = newError(3005, "rental is of a different kind")
	ErrSweepRunning      = newError(3006, "expiry sweep already running")
)
