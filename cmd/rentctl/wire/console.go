package wire

import (
	"cloudrent/internal/job"
	"cloudrent/internal/service"
	"cloudrent/pkg/log"
)

// Console is the slice of the service layer rentctl drives.
type Console struct {
	Logger          *log.Logger
	Rentals         service.RentalService
	Expiry          job.ExpiryJob
	Inconsistencies service.InconsistencyService
}
