package get_available_slots

import (
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date     string         `json:"date"`
	Slots    []string       `json:"slots"`
	Capacity []SlotCapacity `json:"capacity"`
}

// SlotCapacity число работников, покрывающих слот
type SlotCapacity struct {
	Time    string `json:"time"`
	Workers int    `json:"workers"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.String()
	}

	capacity := make([]SlotCapacity, len(resp.Capacity))
	for i, slot := range resp.Capacity {
		capacity[i] = SlotCapacity{
			Time:    slot.StartTime.String(),
			Workers: slot.Capacity,
		}
	}

	return &AvailableSlotsResponse{
		Date:     resp.Date.String(),
		Slots:    slots,
		Capacity: capacity,
	}
}
