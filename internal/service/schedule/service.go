package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	slotsRepo "github.com/wavehouse/MSC-BookingService/internal/infra/storage/slots"
	"github.com/wavehouse/MSC-BookingService/internal/service/schedule/models"
	"github.com/wavehouse/MSC-BookingService/pkg/types"
)

// Service административный сервис расписания: управление еженедельными
// слотами, вместимостью активностей и отчеты по доступности
type Service struct {
	slotRepo SlotRepository
	timeProv TimeProvider
	logger   Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(slotRepo SlotRepository, timeProv TimeProvider, logger Logger) *Service {
	return &Service{
		slotRepo: slotRepo,
		timeProv: timeProv,
		logger:   logger,
	}
}

// CreateSlot создает еженедельный слот после проверки пересечений
// с существующими окнами того же дня
func (s *Service) CreateSlot(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("CreateSlot: day=%d, start=%s, end=%s", req.DayOfWeek, req.StartTime, req.EndTime)

	start, end, err := req.Validate()
	if err != nil {
		s.logger.Warn("CreateSlot: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.checkOverlap(ctx, req.DayOfWeek, start, end, 0); err != nil {
		return nil, err
	}

	created, err := s.slotRepo.Create(ctx, &domain.Slot{
		DayOfWeek: req.DayOfWeek,
		StartTime: start,
		EndTime:   end,
		Capacity:  domain.DefaultSlotCapacity,
		Active:    true,
	})
	if err != nil {
		s.logger.Error("CreateSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateSlot: slot id=%d created", created.ID)
	return models.FromDomainSlot(created), nil
}

// UpdateSlot частично обновляет слот, повторяя проверку пересечений
// для нового окна
func (s *Service) UpdateSlot(ctx context.Context, id int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("UpdateSlot: slot id=%d", id)

	slot, err := s.getSlot(ctx, id, "UpdateSlot")
	if err != nil {
		return nil, err
	}

	if req.DayOfWeek != nil {
		if *req.DayOfWeek < 1 || *req.DayOfWeek > 7 {
			return nil, fmt.Errorf("%w: dayOfWeek must be between 1 and 7, got %d", ErrInvalidInput, *req.DayOfWeek)
		}
		slot.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		start, err := s.parseTime(*req.StartTime, "startTime")
		if err != nil {
			return nil, err
		}
		slot.StartTime = start
	}
	if req.EndTime != nil {
		end, err := s.parseTime(*req.EndTime, "endTime")
		if err != nil {
			return nil, err
		}
		slot.EndTime = end
	}
	if !slot.StartTime.IsBefore(slot.EndTime) {
		return nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	if req.Active != nil {
		slot.Active = *req.Active
	}

	if err := s.checkOverlap(ctx, slot.DayOfWeek, slot.StartTime, slot.EndTime, slot.ID); err != nil {
		return nil, err
	}

	if err := s.slotRepo.Update(ctx, slot); err != nil {
		if errors.Is(err, slotsRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("UpdateSlot: repository error for slot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSlot: slot id=%d updated", id)
	return models.FromDomainSlot(slot), nil
}

// DeactivateSlot мягко выключает слот, история бронирований сохраняется
func (s *Service) DeactivateSlot(ctx context.Context, id int64) error {
	s.logger.Info("DeactivateSlot: slot id=%d", id)

	if err := s.slotRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, slotsRepo.ErrSlotNotFound) {
			s.logger.Warn("DeactivateSlot: slot id=%d not found", id)
			return ErrSlotNotFound
		}
		s.logger.Error("DeactivateSlot: repository error for slot id=%d: %v", id, err)
		return fmt.Errorf("%w: DeactivateSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeactivateSlot: slot id=%d deactivated", id)
	return nil
}

// SetActivityCapacity настраивает или обновляет потолок вместимости
// активности на слоте
func (s *Service) SetActivityCapacity(ctx context.Context, slotID int64, req *models.SetActivityCapacityRequest) error {
	s.logger.Info("SetActivityCapacity: slot id=%d, activity=%s, capacity=%d", slotID, req.Activity, req.MaxCapacity)

	activity, err := domain.ParseActivityType(req.Activity)
	if err != nil {
		s.logger.Warn("SetActivityCapacity: invalid activity %q", req.Activity)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.MaxCapacity <= 0 {
		return fmt.Errorf("%w: maxCapacity must be positive, got %d", ErrInvalidInput, req.MaxCapacity)
	}

	if _, err := s.getSlot(ctx, slotID, "SetActivityCapacity"); err != nil {
		return err
	}

	err = s.slotRepo.SetActivityCapacity(ctx, &domain.ActivityCapacity{
		SlotID:      slotID,
		Activity:    activity,
		MaxCapacity: req.MaxCapacity,
	})
	if err != nil {
		s.logger.Error("SetActivityCapacity: repository error for slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: SetActivityCapacity - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetActivityCapacity: slot id=%d, %s -> %d", slotID, activity, req.MaxCapacity)
	return nil
}

// WeeklySchedule возвращает все слоты недели с настройками вместимости,
// сгруппированные по дням
func (s *Service) WeeklySchedule(ctx context.Context) (*models.WeeklyScheduleResponse, error) {
	s.logger.Info("WeeklySchedule: fetching full schedule")

	slots, err := s.slotRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error("WeeklySchedule: repository error: %v", err)
		return nil, fmt.Errorf("%w: WeeklySchedule - repository error: %v", ErrInternal, err)
	}

	byDay := make(map[int][]*models.SlotResponse)
	for _, slot := range slots {
		view := models.FromDomainSlot(slot)

		caps, err := s.slotRepo.GetActivityConfig(ctx, slot.ID)
		if err != nil {
			s.logger.Error("WeeklySchedule: failed to get activity config for slot id=%d: %v", slot.ID, err)
			return nil, fmt.Errorf("%w: WeeklySchedule - activity config error: %v", ErrInternal, err)
		}
		view.Activities = models.FromDomainActivityConfig(caps)

		byDay[slot.DayOfWeek] = append(byDay[slot.DayOfWeek], view)
	}

	resp := &models.WeeklyScheduleResponse{}
	for day := 1; day <= 7; day++ {
		if views, ok := byDay[day]; ok {
			resp.Days = append(resp.Days, models.DaySchedule{DayOfWeek: day, Slots: views})
		}
	}

	s.logger.Info("WeeklySchedule: %d slots across %d days", len(slots), len(resp.Days))
	return resp, nil
}

// DateAvailability возвращает остатки мест по всем активным слотам даты.
// Bookable отмечает, попадает ли дата в окно бронирования.
func (s *Service) DateAvailability(ctx context.Context, date time.Time) (*models.DateAvailabilityResponse, error) {
	s.logger.Info("DateAvailability: date=%s", date.Format(domain.DateFormat))

	dayOfWeek := int(date.Weekday())
	if dayOfWeek == 0 {
		dayOfWeek = 7
	}

	slots, err := s.slotRepo.GetByDay(ctx, dayOfWeek)
	if err != nil {
		s.logger.Error("DateAvailability: repository error: %v", err)
		return nil, fmt.Errorf("%w: DateAvailability - repository error: %v", ErrInternal, err)
	}

	resp := &models.DateAvailabilityResponse{
		Date:     date.Format(domain.DateFormat),
		Bookable: s.withinBookingWindow(date),
	}

	for _, slot := range slots {
		items, err := s.slotRepo.GetAvailability(ctx, slot.ID, date)
		if err != nil {
			s.logger.Error("DateAvailability: failed to get availability for slot id=%d: %v", slot.ID, err)
			return nil, fmt.Errorf("%w: DateAvailability - availability error: %v", ErrInternal, err)
		}

		resp.Slots = append(resp.Slots, &models.SlotAvailability{
			SlotID:     slot.ID,
			StartTime:  slot.StartTime.String(),
			EndTime:    slot.EndTime.String(),
			Activities: models.FromDomainAvailability(items),
		})
	}

	s.logger.Info("DateAvailability: date=%s, %d slots", resp.Date, len(resp.Slots))
	return resp, nil
}

// UtilizationReport собирает строки леджера за период для отчета по загрузке
func (s *Service) UtilizationReport(ctx context.Context, from, to time.Time) (*models.UtilizationReportResponse, error) {
	s.logger.Info("UtilizationReport: from=%s, to=%s", from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	if to.Before(from) {
		s.logger.Warn("UtilizationReport: invalid period")
		return nil, fmt.Errorf("%w: period end is before period start", ErrInvalidInput)
	}

	items, err := s.slotRepo.UtilizationReport(ctx, from, to)
	if err != nil {
		s.logger.Error("UtilizationReport: repository error: %v", err)
		return nil, fmt.Errorf("%w: UtilizationReport - repository error: %v", ErrInternal, err)
	}

	resp := &models.UtilizationReportResponse{From: from, To: to, Rows: make([]models.UtilizationRow, 0, len(items))}
	for _, item := range items {
		resp.Rows = append(resp.Rows, models.UtilizationRow{
			SlotID:      item.SlotID,
			Date:        item.BookingDate.Format(domain.DateFormat),
			Activity:    string(item.Activity),
			BookedCount: item.BookedCount,
			MaxCapacity: item.MaxCapacity,
		})
	}

	s.logger.Info("UtilizationReport: %d rows", len(resp.Rows))
	return resp, nil
}

// checkOverlap сравнивает окно с активными слотами того же дня.
// excludeID пропускает сам слот при обновлении.
func (s *Service) checkOverlap(ctx context.Context, dayOfWeek int, start, end types.TimeString, excludeID int64) error {
	existing, err := s.slotRepo.GetByDay(ctx, dayOfWeek)
	if err != nil {
		s.logger.Error("checkOverlap: repository error for day=%d: %v", dayOfWeek, err)
		return fmt.Errorf("%w: checkOverlap - repository error: %v", ErrInternal, err)
	}

	for _, slot := range existing {
		if slot.ID == excludeID {
			continue
		}
		if slot.Overlaps(start, end) {
			s.logger.Warn("checkOverlap: window %s-%s overlaps slot id=%d", start, end, slot.ID)
			return fmt.Errorf("%w: window %s-%s overlaps slot %d", ErrSlotOverlap, start, end, slot.ID)
		}
	}
	return nil
}

// getSlot получает слот, нормализуя ошибку отсутствия
func (s *Service) getSlot(ctx context.Context, id int64, method string) (*domain.Slot, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotsRepo.ErrSlotNotFound) {
			s.logger.Warn("%s: slot id=%d not found", method, id)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("%s: repository error for slot id=%d: %v", method, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}
	return slot, nil
}

func (s *Service) parseTime(value, field string) (types.TimeString, error) {
	parsed, err := types.NewTimeStringFromString(value)
	if err != nil {
		return "", fmt.Errorf("%w: invalid %s: %v", ErrInvalidInput, field, err)
	}
	return parsed, nil
}

// withinBookingWindow проверяет, что дата не в прошлом и не дальше
// недельного окна бронирования, которое закрывается следующим
// понедельником
func (s *Service) withinBookingWindow(date time.Time) bool {
	now := s.timeProv.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return !day.Before(today) && !day.After(domain.BookingWindowEnd(today))
}
