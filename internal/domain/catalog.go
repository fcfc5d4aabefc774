package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OrderFlow/pkg/types"
)

// Vehicle a customer's car, owned by the backend
type Vehicle struct {
	ID         string
	CustomerID string
	Brand      string
	Model      string
	Plate      string
	Images     []VehicleImage
}

// Address a customer's service address, owned by the backend
type Address struct {
	ID         string
	CustomerID string
	Title      string
	Line       string
	Latitude   float64
	Longitude  float64
}

// Service a wash service from the catalog
type Service struct {
	ID          string
	Title       string
	Description string
	Price       decimal.Decimal
	Images      []string
}

// TimeSlot a bookable 30-minute slot on a given date
type TimeSlot struct {
	ID             string
	Time           types.TimeString
	IsAvailable    bool
	AvailableSpots int // Free wash boxes
	TotalSpots     int // Total wash boxes
}

// IsFull returns true if the slot has no free boxes
func (s *TimeSlot) IsFull() bool {
	return s.AvailableSpots <= 0
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *TimeSlot) OccupancyRate() float64 {
	if s.TotalSpots == 0 {
		return 0
	}
	occupied := s.TotalSpots - s.AvailableSpots
	return float64(occupied) / float64(s.TotalSpots) * 100
}

// Card a saved payment card reference
type Card struct {
	ID     string
	Holder string
	Last4  string
}

// PaymentReceipt result of a successful charge
type PaymentReceipt struct {
	ID     string
	Amount decimal.Decimal
	PaidAt time.Time
}
