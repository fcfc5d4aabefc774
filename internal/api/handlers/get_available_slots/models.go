package get_available_slots

import (
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	slotsUC "github.com/m04kA/SMC-OrderFlow/internal/usecase/get_available_slots"
)

// SlotsQuery параметры GET /slots
type SlotsQuery struct {
	Date     time.Time
	FreeOnly bool // ?free=true скрывает полностью занятые слоты
}

// ParseSlotsQuery разбирает query-параметры date и free
func ParseSlotsQuery(values url.Values) (*SlotsQuery, error) {
	date, err := time.Parse(domain.DateFormat, values.Get("date"))
	if err != nil {
		return nil, err
	}

	q := &SlotsQuery{Date: date}
	if raw := values.Get("free"); raw != "" {
		if q.FreeOnly, err = strconv.ParseBool(raw); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// SlotsResponse HTTP response model
type SlotsResponse struct {
	Date      string         `json:"date"`
	FreeSlots int            `json:"freeSlots"`
	Slots     []SlotResponse `json:"slots"`
}

type SlotResponse struct {
	ID              string `json:"id"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	AvailableSpots  int    `json:"availableSpots"`
	TotalSpots      int    `json:"totalSpots"`
	IsAvailable     bool   `json:"isAvailable"`
}

// FromUseCaseResponse конвертирует сетку слотов в HTTP ответ
func FromUseCaseResponse(resp *slotsUC.Response, freeOnly bool) *SlotsResponse {
	out := &SlotsResponse{
		Date:  resp.Date.Format(domain.DateFormat),
		Slots: make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, s := range resp.Slots {
		slot := s.ToDomain(resp.Date)
		if slot.IsAvailable {
			out.FreeSlots++
		} else if freeOnly {
			continue
		}
		out.Slots = append(out.Slots, SlotResponse{
			ID:              slot.ID,
			StartTime:       slot.Time.String(),
			DurationMinutes: s.DurationMinutes,
			AvailableSpots:  slot.AvailableSpots,
			TotalSpots:      slot.TotalSpots,
			IsAvailable:     slot.IsAvailable,
		})
	}
	return out
}
