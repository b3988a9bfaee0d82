package models

import (
	"fmt"
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	"github.com/wavehouse/MSC-BookingService/pkg/types"
)

// CreateSlotRequest запрос на создание еженедельного слота
type CreateSlotRequest struct {
	DayOfWeek int    `json:"dayOfWeek"` // 1 = понедельник .. 7 = воскресенье
	StartTime string `json:"startTime"` // "07:00"
	EndTime   string `json:"endTime"`   // "08:30"
}

// Validate проверяет поля запроса и возвращает разобранные времена
func (r *CreateSlotRequest) Validate() (types.TimeString, types.TimeString, error) {
	if r.DayOfWeek < 1 || r.DayOfWeek > 7 {
		return "", "", fmt.Errorf("dayOfWeek must be between 1 and 7, got %d", r.DayOfWeek)
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return "", "", fmt.Errorf("invalid startTime: %v", err)
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return "", "", fmt.Errorf("invalid endTime: %v", err)
	}
	if !start.IsBefore(end) {
		return "", "", fmt.Errorf("startTime must be before endTime")
	}
	return start, end, nil
}

// UpdateSlotRequest частичное обновление слота
type UpdateSlotRequest struct {
	DayOfWeek *int    `json:"dayOfWeek,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

// SetActivityCapacityRequest настройка вместимости активности на слоте
type SetActivityCapacityRequest struct {
	Activity    string `json:"activity"`
	MaxCapacity int    `json:"maxCapacity"`
}

// ActivityCapacityView вместимость активности в ответе
type ActivityCapacityView struct {
	Activity    string `json:"activity"`
	MaxCapacity int    `json:"maxCapacity"`
}

// SlotResponse слот в ответах расписания
type SlotResponse struct {
	ID         int64                  `json:"id"`
	DayOfWeek  int                    `json:"dayOfWeek"`
	StartTime  string                 `json:"startTime"`
	EndTime    string                 `json:"endTime"`
	Active     bool                   `json:"active"`
	Activities []ActivityCapacityView `json:"activities,omitempty"`
	CreatedAt  string                 `json:"createdAt"`
	UpdatedAt  string                 `json:"updatedAt"`
}

// WeeklyScheduleResponse все слоты недели, сгруппированные по дням
type WeeklyScheduleResponse struct {
	Days []DaySchedule `json:"days"`
}

// DaySchedule слоты одного дня недели
type DaySchedule struct {
	DayOfWeek int             `json:"dayOfWeek"`
	Slots     []*SlotResponse `json:"slots"`
}

// ActivityAvailabilityView остаток мест по активности на дату
type ActivityAvailabilityView struct {
	Activity       string `json:"activity"`
	MaxCapacity    int    `json:"maxCapacity"`
	BookedCount    int    `json:"bookedCount"`
	AvailableSpots int    `json:"availableSpots"`
}

// SlotAvailability доступность одного слота на дату
type SlotAvailability struct {
	SlotID     int64                      `json:"slotId"`
	StartTime  string                     `json:"startTime"`
	EndTime    string                     `json:"endTime"`
	Activities []ActivityAvailabilityView `json:"activities"`
}

// DateAvailabilityResponse доступность всех слотов на конкретную дату.
// Bookable показывает, попадает ли дата в окно бронирования.
type DateAvailabilityResponse struct {
	Date     string              `json:"date"`
	Bookable bool                `json:"bookable"`
	Slots    []*SlotAvailability `json:"slots"`
}

// UtilizationRow строка отчета по загрузке
type UtilizationRow struct {
	SlotID      int64  `json:"slotId"`
	Date        string `json:"date"`
	Activity    string `json:"activity"`
	BookedCount int    `json:"bookedCount"`
	MaxCapacity int    `json:"maxCapacity"`
}

// UtilizationReportResponse отчет по загрузке за период
type UtilizationReportResponse struct {
	From time.Time        `json:"-"`
	To   time.Time        `json:"-"`
	Rows []UtilizationRow `json:"rows"`
}

// FromDomainSlot конвертирует доменный слот в ответ
func FromDomainSlot(slot *domain.Slot) *SlotResponse {
	return &SlotResponse{
		ID:        slot.ID,
		DayOfWeek: slot.DayOfWeek,
		StartTime: slot.StartTime.String(),
		EndTime:   slot.EndTime.String(),
		Active:    slot.Active,
		CreatedAt: slot.CreatedAt.Format(time.RFC3339),
		UpdatedAt: slot.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainActivityConfig конвертирует настройки вместимости слота
func FromDomainActivityConfig(caps []*domain.ActivityCapacity) []ActivityCapacityView {
	views := make([]ActivityCapacityView, 0, len(caps))
	for _, c := range caps {
		views = append(views, ActivityCapacityView{
			Activity:    string(c.Activity),
			MaxCapacity: c.MaxCapacity,
		})
	}
	return views
}

// FromDomainAvailability конвертирует строки леджера в представление доступности
func FromDomainAvailability(items []*domain.ActivityAvailability) []ActivityAvailabilityView {
	views := make([]ActivityAvailabilityView, 0, len(items))
	for _, item := range items {
		views = append(views, ActivityAvailabilityView{
			Activity:       string(item.Activity),
			MaxCapacity:    item.MaxCapacity,
			BookedCount:    item.BookedCount,
			AvailableSpots: item.AvailableSpots(),
		})
	}
	return views
}
