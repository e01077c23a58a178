package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
	"github.com/m04kA/SMC-AppointmentService/pkg/validation"
)

// Request модели

// CreateWorkerRequest запрос на создание работника
type CreateWorkerRequest struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	IsActive *bool   `json:"isActive,omitempty"` // По умолчанию true
}

// UpdateWorkerRequest запрос на обновление работника
// Все поля опциональны - обновляются только переданные значения
type UpdateWorkerRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// SetAvailabilityRequest правило еженедельной доступности
type SetAvailabilityRequest struct {
	DayOfWeek   *int   `json:"dayOfWeek" validate:"required,min=0,max=6"` // 0 = воскресенье
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
	IsAvailable *bool  `json:"isAvailable,omitempty"` // По умолчанию true
}

// AddTimeOffRequest запрос на добавление отгула
// Без startTime/endTime отгул на весь день
type AddTimeOffRequest struct {
	StartDate string  `json:"startDate" validate:"required"`
	EndDate   *string `json:"endDate,omitempty"` // По умолчанию равен startDate
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	IsFullDay *bool   `json:"isFullDay,omitempty"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ToDomainWorker валидирует запрос и конвертирует его в domain модель
func (r *CreateWorkerRequest) ToDomainWorker() (*domain.Worker, validation.Errors) {
	r.Name = strings.TrimSpace(r.Name)
	if errs := validation.Struct(r); len(errs) > 0 {
		return nil, errs
	}

	worker := &domain.Worker{
		ID:       uuid.New(),
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		IsActive: true,
	}
	if r.IsActive != nil {
		worker.IsActive = *r.IsActive
	}
	return worker, nil
}

// Validate проверяет переданные поля
func (r *UpdateWorkerRequest) Validate() validation.Errors {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	return validation.Struct(r)
}

// ApplyToWorker применяет изменения к работнику
func (r *UpdateWorkerRequest) ApplyToWorker(w *domain.Worker) {
	if r.Name != nil {
		w.Name = *r.Name
	}
	if r.Email != nil {
		w.Email = r.Email
	}
	if r.Phone != nil {
		w.Phone = r.Phone
	}
	if r.IsActive != nil {
		w.IsActive = *r.IsActive
	}
}

// ToDomainAvailability валидирует запрос и конвертирует его в domain модель
func (r *SetAvailabilityRequest) ToDomainAvailability(workerID uuid.UUID) (*domain.WeeklyAvailability, validation.Errors) {
	errs := validation.Struct(r)
	start, end := validateInterval(&errs, r.StartTime, r.EndTime)
	if len(errs) > 0 {
		return nil, errs
	}

	a := &domain.WeeklyAvailability{
		ID:          uuid.New(),
		WorkerID:    workerID,
		DayOfWeek:   time.Weekday(*r.DayOfWeek),
		StartTime:   start,
		EndTime:     end,
		IsAvailable: true,
	}
	if r.IsAvailable != nil {
		a.IsAvailable = *r.IsAvailable
	}
	return a, nil
}

// ToDomainTimeOff валидирует запрос и конвертирует его в domain модель
func (r *AddTimeOffRequest) ToDomainTimeOff(workerID uuid.UUID) (*domain.TimeOff, validation.Errors) {
	errs := validation.Struct(r)

	startDate := types.DateString(r.StartDate)
	if r.StartDate != "" && startDate.Validate() != nil {
		errs.Add("startDate", "must be YYYY-MM-DD")
	}
	endDate := startDate
	if r.EndDate != nil {
		endDate = types.DateString(*r.EndDate)
		if endDate.Validate() != nil {
			errs.Add("endDate", "must be YYYY-MM-DD")
		} else if startDate.Validate() == nil && endDate.Before(startDate) {
			errs.Add("endDate", "must not be before startDate")
		}
	}

	isFullDay := r.StartTime == nil && r.EndTime == nil
	if r.IsFullDay != nil {
		isFullDay = *r.IsFullDay
	}

	o := &domain.TimeOff{
		ID:        uuid.New(),
		WorkerID:  workerID,
		StartDate: startDate,
		EndDate:   endDate,
		IsFullDay: isFullDay,
		Reason:    r.Reason,
	}

	if !isFullDay {
		if r.StartTime == nil || r.EndTime == nil {
			errs.Add("startTime", "startTime and endTime are required for a partial time off")
		} else {
			start, end := validateInterval(&errs, *r.StartTime, *r.EndTime)
			o.StartTime = &start
			o.EndTime = &end
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return o, nil
}

func validateInterval(errs *validation.Errors, rawStart, rawEnd string) (types.TimeString, types.TimeString) {
	start, end := types.TimeString(rawStart), types.TimeString(rawEnd)
	startOK := rawStart != "" && start.Validate() == nil
	endOK := rawEnd != "" && end.Validate() == nil
	if rawStart != "" && !startOK {
		errs.Add("startTime", "must be HH:MM")
	}
	if rawEnd != "" && !endOK {
		errs.Add("endTime", "must be HH:MM")
	}
	if startOK && endOK && !start.IsBefore(end) {
		errs.Add("endTime", "must be after startTime")
	}
	return start, end
}

// Response модели

// WorkerResponse ответ с данными работника
type WorkerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AvailabilityResponse правило еженедельной доступности
type AvailabilityResponse struct {
	ID          string `json:"id"`
	WorkerID    string `json:"workerId"`
	DayOfWeek   int    `json:"dayOfWeek"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}

// TimeOffResponse отгул работника
type TimeOffResponse struct {
	ID        string  `json:"id"`
	WorkerID  string  `json:"workerId"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	IsFullDay bool    `json:"isFullDay"`
	Reason    *string `json:"reason,omitempty"`
}

// WorkerScheduleResponse работник с правилами доступности и отгулами
type WorkerScheduleResponse struct {
	WorkerResponse
	Availability []AvailabilityResponse `json:"availability"`
	TimeOff      []TimeOffResponse      `json:"timeOff"`
}

// WorkerListResponse ответ со списком работников
type WorkerListResponse struct {
	Workers []WorkerScheduleResponse `json:"workers"`
}

// Методы конвертации

// FromDomainWorker конвертирует domain модель в DTO
func FromDomainWorker(w *domain.Worker) *WorkerResponse {
	if w == nil {
		return nil
	}
	return &WorkerResponse{
		ID:        w.ID.String(),
		Name:      w.Name,
		Email:     w.Email,
		Phone:     w.Phone,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// FromDomainAvailability конвертирует domain модель в DTO
func FromDomainAvailability(a *domain.WeeklyAvailability) *AvailabilityResponse {
	return &AvailabilityResponse{
		ID:          a.ID.String(),
		WorkerID:    a.WorkerID.String(),
		DayOfWeek:   int(a.DayOfWeek),
		StartTime:   a.StartTime.String(),
		EndTime:     a.EndTime.String(),
		IsAvailable: a.IsAvailable,
	}
}

// FromDomainTimeOff конвертирует domain модель в DTO
func FromDomainTimeOff(o *domain.TimeOff) *TimeOffResponse {
	resp := &TimeOffResponse{
		ID:        o.ID.String(),
		WorkerID:  o.WorkerID.String(),
		StartDate: o.StartDate.String(),
		EndDate:   o.EndDate.String(),
		IsFullDay: o.IsFullDay,
		Reason:    o.Reason,
	}
	if o.StartTime != nil {
		s := o.StartTime.String()
		resp.StartTime = &s
	}
	if o.EndTime != nil {
		e := o.EndTime.String()
		resp.EndTime = &e
	}
	return resp
}

// FromDomainSchedules конвертирует список расписаний в DTO
func FromDomainSchedules(schedules []domain.WorkerSchedule) *WorkerListResponse {
	resp := &WorkerListResponse{
		Workers: make([]WorkerScheduleResponse, 0, len(schedules)),
	}

	for i := range schedules {
		ws := &schedules[i]
		item := WorkerScheduleResponse{
			WorkerResponse: *FromDomainWorker(&ws.Worker),
			Availability:   make([]AvailabilityResponse, 0, len(ws.Availability)),
			TimeOff:        make([]TimeOffResponse, 0, len(ws.TimeOff)),
		}
		for j := range ws.Availability {
			item.Availability = append(item.Availability, *FromDomainAvailability(&ws.Availability[j]))
		}
		for j := range ws.TimeOff {
			item.TimeOff = append(item.TimeOff, *FromDomainTimeOff(&ws.TimeOff[j]))
		}
		resp.Workers = append(resp.Workers, item)
	}

	return resp
}
