package get_available_slots

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date string // Дата в формате YYYY-MM-DD
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date     types.DateString       // Дата, на которую запрашивались слоты
	Slots    []types.TimeString     // Свободные слоты по возрастанию
	Capacity []domain.AvailableSlot // Число работников на каждый свободный слот
}
