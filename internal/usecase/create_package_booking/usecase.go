package create_package_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	slotsRepo "github.com/wavehouse/MSC-BookingService/internal/infra/storage/slots"
	"github.com/wavehouse/MSC-BookingService/internal/lock"
	"github.com/wavehouse/MSC-BookingService/internal/planner"
	"github.com/wavehouse/MSC-BookingService/internal/pricing"
)

// lockTTL время жизни блокировки кортежа вместимости
const lockTTL = 10 * time.Second

// UseCase use case для бронирования пакета
type UseCase struct {
	customerRepo CustomerRepository
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	planner      SessionPlanner
	pricer       *pricing.Engine
	txManager    TransactionManager
	locker       Locker
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	customerRepo CustomerRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	sessionPlanner SessionPlanner,
	pricer *pricing.Engine,
	txManager TransactionManager,
	locker Locker,
	logger Logger,
) *UseCase {
	return &UseCase{
		customerRepo: customerRepo,
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		planner:      sessionPlanner,
		pricer:       pricer,
		txManager:    txManager,
		locker:       locker,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет бронирование пакета: раскладывает пакет по сессиям,
// резервирует места для каждой группы (слот, дата, активность) и создает
// бронирование. Вся работа с БД идет в одной сериализуемой транзакции.
// Резервы всегда берутся в порядке (дата, слот, активность), чтобы два
// параллельных пакета не встали в дедлок на пересекающихся кортежах.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreatePackageBooking: package=%s, accommodation=%s, checkIn=%s, people=%d",
		req.PackageType, req.Accommodation, req.CheckInDate.Format(domain.DateFormat), len(req.People))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreatePackageBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Валидация даты заезда относительно текущего времени
	now := uc.timeProvider.Now()
	if err := validateCheckIn(req.CheckInDate, now); err != nil {
		uc.logger.Warn("CreatePackageBooking: check-in validation failed: %v", err)
		return nil, err
	}

	// 3. Цена и потребность в жилье, операция чистая
	price, accReq, err := uc.pricer.PackagePrice(req.PackageType, req.Accommodation, len(req.People))
	if err != nil {
		if errors.Is(err, pricing.ErrCapacityExceeded) {
			uc.logger.Warn("CreatePackageBooking: accommodation capacity exceeded: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrAccommodationCapacity, err)
		}
		uc.logger.Error("CreatePackageBooking: pricing failed: %v", err)
		return nil, fmt.Errorf("%w: pricing failed: %v", ErrInternal, err)
	}

	plannerInputs := make([]planner.SessionInput, 0, len(req.Sessions))
	for _, s := range req.Sessions {
		plannerInputs = append(plannerInputs, planner.SessionInput{
			Date:             s.Date,
			SlotID:           s.SlotID,
			PersonActivities: s.PersonActivities,
		})
	}

	// Блокировки снимаются после завершения транзакции
	releases := make([]lock.Release, 0)
	defer func() {
		for _, release := range releases {
			if err := release(ctx); err != nil {
				uc.logger.Warn("CreatePackageBooking: failed to release lock: %v", err)
			}
		}
	}()

	var result *domain.Booking
	var sessions []domain.PackageSession

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Раскладываем пакет по сессиям, подбирая слоты где не заданы
		planned, err := uc.planner.Plan(txCtx, req.PackageType, req.CheckInDate, len(req.People), plannerInputs)
		if err != nil {
			return mapPlannerError(err)
		}
		sessions = planned

		// 4.2. Кортежи вместимости всех сессий в детерминированном порядке
		claims := buildClaims(planned)
		domain.SortClaims(claims)

		// 4.3. Резервируем каждый кортеж под распределенной блокировкой
		for _, claim := range claims {
			release, err := uc.locker.Acquire(ctx, claim.Key(), lockTTL)
			if err != nil {
				if errors.Is(err, lock.ErrNotAcquired) {
					uc.logger.Warn("CreatePackageBooking: capacity tuple %s is locked", claim.Key())
					return ErrSlotBusy
				}
				uc.logger.Error("CreatePackageBooking: failed to acquire lock: %v", err)
				return fmt.Errorf("%w: failed to acquire lock: %v", ErrInternal, err)
			}
			releases = append(releases, release)

			if _, err := uc.slotRepo.CheckActivity(txCtx, claim.SlotID, claim.Activity); err != nil {
				if errors.Is(err, slotsRepo.ErrActivityNotConfigured) {
					return fmt.Errorf("%w: %s on slot %d", ErrActivityNotConfigured, claim.Activity, claim.SlotID)
				}
				uc.logger.Error("CreatePackageBooking: failed to check activity: %v", err)
				return fmt.Errorf("%w: failed to check activity: %v", ErrInternal, err)
			}

			if err := uc.slotRepo.ReserveActivity(txCtx, claim); err != nil {
				if errors.Is(err, slotsRepo.ErrInsufficientCapacity) {
					uc.logger.Warn("CreatePackageBooking: insufficient capacity for %s", claim.Key())
					return fmt.Errorf("%w: %s", ErrInsufficientCapacity, claim.Key())
				}
				uc.logger.Error("CreatePackageBooking: failed to reserve capacity: %v", err)
				return fmt.Errorf("%w: failed to reserve capacity: %v", ErrInternal, err)
			}
		}

		// 4.4. Клиент: создание или обновление по email
		customer, err := uc.customerRepo.Upsert(txCtx, &domain.Customer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		})
		if err != nil {
			uc.logger.Error("CreatePackageBooking: failed to upsert customer: %v", err)
			return fmt.Errorf("%w: failed to upsert customer: %v", ErrInternal, err)
		}

		// 4.5. Создаем бронирование
		booking := &domain.Booking{
			CustomerID:     customer.ID,
			Type:           domain.BookingTypePackage,
			TotalPeople:    len(req.People),
			PriceBreakdown: domain.PriceBreakdown(price),
			PaymentStatus:  domain.PaymentPending,
			Status:         domain.StatusConfirmed,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreatePackageBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 4.6. Участники. Активность задается по сессиям, не по людям.
		people := make([]domain.BookingPerson, 0, len(req.People))
		for _, p := range req.People {
			people = append(people, domain.BookingPerson{Name: p.Name, Age: p.Age})
		}
		if err := uc.bookingRepo.AddPeople(txCtx, created.ID, people); err != nil {
			uc.logger.Error("CreatePackageBooking: failed to add people: %v", err)
			return fmt.Errorf("%w: failed to add people: %v", ErrInternal, err)
		}

		// 4.7. Детальная запись пакета с сессиями
		if err := uc.bookingRepo.CreatePackageDetails(txCtx, &domain.PackageDetails{
			BookingID:     created.ID,
			PackageType:   req.PackageType,
			Accommodation: req.Accommodation,
			CheckInDate:   req.CheckInDate,
			CheckOutDate:  req.PackageType.CheckOutDate(req.CheckInDate),
			Sessions:      planned,
		}); err != nil {
			uc.logger.Error("CreatePackageBooking: failed to create details: %v", err)
			return fmt.Errorf("%w: failed to create details: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreatePackageBooking: successfully created booking id=%d", result.ID)

	sessionViews := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		sessionViews = append(sessionViews, SessionView{
			SessionNumber:    s.SessionNumber,
			SessionDate:      s.SessionDate,
			SlotID:           s.SlotID,
			PersonActivities: s.PersonActivities,
		})
	}

	return &Response{
		ID:            result.ID,
		Reference:     result.Reference(referenceActivity(sessions), req.CheckInDate),
		PackageType:   req.PackageType,
		Accommodation: req.Accommodation,
		CheckInDate:   req.CheckInDate,
		CheckOutDate:  req.PackageType.CheckOutDate(req.CheckInDate),
		TotalPeople:   result.TotalPeople,
		UnitsReserved: accReq.UnitsNeeded,
		Sessions:      sessionViews,
		BaseAmount:    result.BaseAmount,
		TaxAmount:     result.TaxAmount,
		TotalAmount:   result.TotalAmount,
		PaymentStatus: string(result.PaymentStatus),
		Status:        string(result.Status),
		CreatedAt:     result.CreatedAt,
	}, nil
}

// buildClaims собирает кортежи вместимости из сессий, группируя людей по активностям
func buildClaims(sessions []domain.PackageSession) []domain.CapacityClaim {
	claims := make([]domain.CapacityClaim, 0, len(sessions))
	for _, s := range sessions {
		for activity, count := range s.ActivityGroups() {
			claims = append(claims, domain.CapacityClaim{
				SlotID:      s.SlotID,
				BookingDate: s.SessionDate,
				Activity:    activity,
				Count:       count,
			})
		}
	}
	return claims
}

// referenceActivity активность первой сессии для человекочитаемого референса
func referenceActivity(sessions []domain.PackageSession) domain.ActivityType {
	if len(sessions) > 0 && len(sessions[0].PersonActivities) > 0 {
		return sessions[0].PersonActivities[0].Activity
	}
	return domain.ActivitySurf
}

// mapPlannerError переводит ошибки планировщика в ошибки usecase
func mapPlannerError(err error) error {
	switch {
	case errors.Is(err, planner.ErrScheduleMismatch):
		return fmt.Errorf("%w: %v", ErrScheduleMismatch, err)
	case errors.Is(err, planner.ErrInvalidAssignment):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, planner.ErrNoSlotAvailable), errors.Is(err, slotsRepo.ErrNoSlotAvailable):
		return fmt.Errorf("%w: %v", ErrNoSlotAvailable, err)
	default:
		return fmt.Errorf("%w: failed to plan sessions: %v", ErrInternal, err)
	}
}
