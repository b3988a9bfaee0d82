package create_stay_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	"github.com/wavehouse/MSC-BookingService/internal/pricing"
)

// UseCase use case для бронирования проживания без активностей
type UseCase struct {
	customerRepo CustomerRepository
	bookingRepo  BookingRepository
	pricer       *pricing.Engine
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	customerRepo CustomerRepository,
	bookingRepo BookingRepository,
	pricer *pricing.Engine,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		customerRepo: customerRepo,
		bookingRepo:  bookingRepo,
		pricer:       pricer,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет бронирование проживания. Леджер вместимости слотов
// не участвует: жилой фонд проверяется расчетом потребности в юнитах.
// Достаточно обычной транзакции, сериализуемый уровень не нужен.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateStayBooking: accommodation=%s, checkIn=%s, checkOut=%s, people=%d",
		req.Accommodation, req.CheckInDate.Format(domain.DateFormat),
		req.CheckOutDate.Format(domain.DateFormat), len(req.People))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateStayBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Валидация даты заезда относительно текущего времени
	now := uc.timeProvider.Now()
	if err := validateCheckIn(req.CheckInDate, now); err != nil {
		uc.logger.Warn("CreateStayBooking: check-in validation failed: %v", err)
		return nil, err
	}

	nights := nightsBetween(req.CheckInDate, req.CheckOutDate)

	// 3. Проживание на 6 ночей продается только как фиксированный
	// extended-пакет в дорме, тип жилья из запроса игнорируется
	accommodation := req.Accommodation
	if nights == pricing.ExtendedStayNights && accommodation != domain.AccommodationDorm {
		uc.logger.Info("CreateStayBooking: %d-night stay, forcing accommodation %s to dorm",
			nights, accommodation)
		accommodation = domain.AccommodationDorm
	}

	// 4. Цена и потребность в жилье
	price, accReq, err := uc.pricer.StayPrice(accommodation, len(req.People), nights, req.IncludesMeals)
	if err != nil {
		if errors.Is(err, pricing.ErrCapacityExceeded) {
			uc.logger.Warn("CreateStayBooking: accommodation capacity exceeded: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrAccommodationCapacity, err)
		}
		uc.logger.Error("CreateStayBooking: pricing failed: %v", err)
		return nil, fmt.Errorf("%w: pricing failed: %v", ErrInternal, err)
	}

	var result *domain.Booking

	// 5. Выполняем операции с БД в транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 5.1. Клиент: создание или обновление по email
		customer, err := uc.customerRepo.Upsert(txCtx, &domain.Customer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		})
		if err != nil {
			uc.logger.Error("CreateStayBooking: failed to upsert customer: %v", err)
			return fmt.Errorf("%w: failed to upsert customer: %v", ErrInternal, err)
		}

		// 5.2. Создаем бронирование
		booking := &domain.Booking{
			CustomerID:     customer.ID,
			Type:           domain.BookingTypeStayOnly,
			TotalPeople:    len(req.People),
			PriceBreakdown: domain.PriceBreakdown(price),
			PaymentStatus:  domain.PaymentPending,
			Status:         domain.StatusConfirmed,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateStayBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 5.3. Участники
		people := make([]domain.BookingPerson, 0, len(req.People))
		for _, p := range req.People {
			people = append(people, domain.BookingPerson{Name: p.Name, Age: p.Age})
		}
		if err := uc.bookingRepo.AddPeople(txCtx, created.ID, people); err != nil {
			uc.logger.Error("CreateStayBooking: failed to add people: %v", err)
			return fmt.Errorf("%w: failed to add people: %v", ErrInternal, err)
		}

		// 5.4. Детальная запись проживания
		if err := uc.bookingRepo.CreateStayDetails(txCtx, &domain.StayDetails{
			BookingID:     created.ID,
			Accommodation: accommodation,
			CheckInDate:   req.CheckInDate,
			CheckOutDate:  req.CheckOutDate,
			NightsCount:   nights,
			IncludesMeals: req.IncludesMeals,
		}); err != nil {
			uc.logger.Error("CreateStayBooking: failed to create details: %v", err)
			return fmt.Errorf("%w: failed to create details: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateStayBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:            result.ID,
		Accommodation: accommodation,
		CheckInDate:   req.CheckInDate,
		CheckOutDate:  req.CheckOutDate,
		Nights:        nights,
		IncludesMeals: req.IncludesMeals,
		TotalPeople:   result.TotalPeople,
		UnitsReserved: accReq.UnitsNeeded,
		BaseAmount:    result.BaseAmount,
		TaxAmount:     result.TaxAmount,
		TotalAmount:   result.TotalAmount,
		PaymentStatus: string(result.PaymentStatus),
		Status:        string(result.Status),
		CreatedAt:     result.CreatedAt,
	}, nil
}
