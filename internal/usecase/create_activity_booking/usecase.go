package create_activity_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	slotsRepo "github.com/wavehouse/MSC-BookingService/internal/infra/storage/slots"
	"github.com/wavehouse/MSC-BookingService/internal/lock"
	"github.com/wavehouse/MSC-BookingService/internal/pricing"
	"github.com/wavehouse/MSC-BookingService/pkg/ptr"
)

// lockTTL время жизни блокировки кортежа вместимости
const lockTTL = 10 * time.Second

// UseCase use case для бронирования активности
type UseCase struct {
	customerRepo CustomerRepository
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
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
	pricer *pricing.Engine,
	txManager TransactionManager,
	locker Locker,
	logger Logger,
) *UseCase {
	return &UseCase{
		customerRepo: customerRepo,
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		pricer:       pricer,
		txManager:    txManager,
		locker:       locker,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет бронирование активности. Участники группируются
// по выбранной активности, каждая группа резервируется отдельным
// условным апсертом внутри одной сериализуемой транзакции. Резервы
// идут в порядке (дата, слот, активность), поверх транзакции кортежи
// защищены распределенной блокировкой для мультиинстансного
// развертывания.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateActivityBooking: activity=%s, date=%s, slot=%d, people=%d",
		req.Activity, req.Date.Format(domain.DateFormat), req.SlotID, len(req.People))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateActivityBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Валидация даты относительно текущего времени
	now := uc.timeProvider.Now()
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateActivityBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Считаем цену до резервирования, операция чистая. Тариф
	// плоский за человека независимо от набора активностей.
	price := uc.pricer.ActivityPrice(len(req.People))

	// Активность каждого участника и кортежи вместимости по группам
	// активностей, в детерминированном порядке (дата, слот, активность)
	activities := personActivities(req)
	primary := primaryActivity(req, activities)
	claims := buildClaims(req, activities)
	domain.SortClaims(claims)

	// Блокировки снимаются после завершения транзакции
	releases := make([]lock.Release, 0, len(claims))
	defer func() {
		for _, release := range releases {
			if err := release(ctx); err != nil {
				uc.logger.Warn("CreateActivityBooking: failed to release lock: %v", err)
			}
		}
	}()

	var result *domain.Booking

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Слот существует, активен и расписан на этот день недели
		slot, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotsRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateActivityBooking: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}
		if !slot.Active {
			return ErrSlotNotFound
		}
		if !slotMatchesDate(slot, req.Date) {
			return ErrSlotDayMismatch
		}

		// 4.2. Резервируем каждую группу активностей под
		// распределенной блокировкой, атомарным условным апсертом
		for _, claim := range claims {
			release, err := uc.locker.Acquire(ctx, claim.Key(), lockTTL)
			if err != nil {
				if errors.Is(err, lock.ErrNotAcquired) {
					uc.logger.Warn("CreateActivityBooking: capacity tuple %s is locked", claim.Key())
					return ErrSlotBusy
				}
				uc.logger.Error("CreateActivityBooking: failed to acquire lock: %v", err)
				return fmt.Errorf("%w: failed to acquire lock: %v", ErrInternal, err)
			}
			releases = append(releases, release)

			if _, err := uc.slotRepo.CheckActivity(txCtx, claim.SlotID, claim.Activity); err != nil {
				if errors.Is(err, slotsRepo.ErrActivityNotConfigured) {
					return fmt.Errorf("%w: %s on slot %d", ErrActivityNotConfigured, claim.Activity, claim.SlotID)
				}
				uc.logger.Error("CreateActivityBooking: failed to check activity: %v", err)
				return fmt.Errorf("%w: failed to check activity: %v", ErrInternal, err)
			}

			if err := uc.slotRepo.ReserveActivity(txCtx, claim); err != nil {
				if errors.Is(err, slotsRepo.ErrInsufficientCapacity) {
					uc.logger.Warn("CreateActivityBooking: insufficient capacity for %s", claim.Key())
					return fmt.Errorf("%w: %s", ErrInsufficientCapacity, claim.Key())
				}
				uc.logger.Error("CreateActivityBooking: failed to reserve capacity: %v", err)
				return fmt.Errorf("%w: failed to reserve capacity: %v", ErrInternal, err)
			}
		}

		// 4.3. Клиент: создание или обновление по email
		customer, err := uc.customerRepo.Upsert(txCtx, &domain.Customer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		})
		if err != nil {
			uc.logger.Error("CreateActivityBooking: failed to upsert customer: %v", err)
			return fmt.Errorf("%w: failed to upsert customer: %v", ErrInternal, err)
		}

		// 4.4. Создаем бронирование
		booking := &domain.Booking{
			CustomerID:     customer.ID,
			Type:           domain.BookingTypeActivity,
			TotalPeople:    len(req.People),
			PriceBreakdown: domain.PriceBreakdown(price),
			PaymentStatus:  domain.PaymentPending,
			Status:         domain.StatusConfirmed,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateActivityBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 4.5. Участники, каждый со своей активностью
		people := make([]domain.BookingPerson, 0, len(req.People))
		for i, p := range req.People {
			people = append(people, domain.BookingPerson{
				Name:     p.Name,
				Age:      p.Age,
				Activity: ptr.Ptr(activities[i]),
			})
		}
		if err := uc.bookingRepo.AddPeople(txCtx, created.ID, people); err != nil {
			uc.logger.Error("CreateActivityBooking: failed to add people: %v", err)
			return fmt.Errorf("%w: failed to add people: %v", ErrInternal, err)
		}

		// 4.6. Детальная запись с основной активностью бронирования
		if err := uc.bookingRepo.CreateActivityDetails(txCtx, &domain.ActivityDetails{
			BookingID:   created.ID,
			Activity:    primary,
			SessionDate: req.Date,
			SlotID:      req.SlotID,
		}); err != nil {
			uc.logger.Error("CreateActivityBooking: failed to create details: %v", err)
			return fmt.Errorf("%w: failed to create details: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateActivityBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:            result.ID,
		Reference:     result.Reference(primary, req.Date),
		Activity:      primary,
		SessionDate:   req.Date,
		SlotID:        req.SlotID,
		TotalPeople:   result.TotalPeople,
		BaseAmount:    result.BaseAmount,
		TaxAmount:     result.TaxAmount,
		TotalAmount:   result.TotalAmount,
		PaymentStatus: string(result.PaymentStatus),
		Status:        string(result.Status),
		CreatedAt:     result.CreatedAt,
	}, nil
}

// personActivities активность каждого участника; без собственного
// выбора участник наследует активность уровня бронирования
func personActivities(req *Request) []domain.ActivityType {
	activities := make([]domain.ActivityType, len(req.People))
	for i, p := range req.People {
		activities[i] = p.Activity
		if activities[i] == "" {
			activities[i] = req.Activity
		}
	}
	return activities
}

// buildClaims один кортеж вместимости на каждую группу активностей
func buildClaims(req *Request, activities []domain.ActivityType) []domain.CapacityClaim {
	counts := make(map[domain.ActivityType]int)
	for _, activity := range activities {
		counts[activity]++
	}

	claims := make([]domain.CapacityClaim, 0, len(counts))
	for activity, count := range counts {
		claims = append(claims, domain.CapacityClaim{
			SlotID:      req.SlotID,
			BookingDate: req.Date,
			Activity:    activity,
			Count:       count,
		})
	}
	return claims
}

// primaryActivity основная активность для детальной записи и референса
func primaryActivity(req *Request, activities []domain.ActivityType) domain.ActivityType {
	if req.Activity != "" {
		return req.Activity
	}
	return activities[0]
}
