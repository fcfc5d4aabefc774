package domain

// Slot grid and photo quotas
const (
	SlotGranularityMinutes = 30
	PhotosPerCategory      = 4
)

// Default schedule values
const (
	DefaultOpenTime                = "09:00"
	DefaultCloseTime               = "21:00"
	DefaultBoxes                   = 1
	DefaultAdvanceBookingDays      = 30
	DefaultMinBookingNoticeMinutes = 60
	DefaultCurrency                = "TRY"
)

// Business validation constants
const (
	MinBoxes              = 1
	MaxBoxes              = 50
	MaxAdvanceBookingDays = 365
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStates states of orders that no longer occupy a slot or a vehicle
var InactiveStates = []OrderState{
	OrderStateCompleted,
	OrderStateCanceled,
}

// ActiveStates states of orders that block a new order on the same vehicle
var ActiveStates = []OrderState{
	OrderStatePending,
	OrderStateConfirmed,
	OrderStateInProgress,
}
