package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	bookingsRepo "github.com/wavehouse/MSC-BookingService/internal/infra/storage/bookings"
	customersRepo "github.com/wavehouse/MSC-BookingService/internal/infra/storage/customers"
	"github.com/wavehouse/MSC-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с существующими бронированиями:
// просмотр, админский список, статус оплаты и отмена с возвратом мест
type Service struct {
	bookingRepo  BookingRepository
	customerRepo CustomerRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	customerRepo CustomerRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		customerRepo: customerRepo,
		slotRepo:     slotRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetByID получает полную карточку бронирования: клиент, участники
// и детальная запись по типу
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingsRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainBooking(booking)

	customer, err := s.customerRepo.GetByID(ctx, booking.CustomerID)
	if err != nil && !errors.Is(err, customersRepo.ErrCustomerNotFound) {
		s.logger.Error("GetByID: failed to get customer id=%d: %v", booking.CustomerID, err)
		return nil, fmt.Errorf("%w: GetByID - customer error: %v", ErrInternal, err)
	}
	if customer != nil {
		resp.Customer = models.FromDomainCustomer(customer)
	}

	people, err := s.bookingRepo.GetPeople(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to get people for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - people error: %v", ErrInternal, err)
	}
	resp.People = models.FromDomainPeople(people)

	if err := s.attachDetails(ctx, booking, resp); err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return resp, nil
}

// attachDetails подтягивает детальную запись и референс по типу бронирования
func (s *Service) attachDetails(ctx context.Context, booking *domain.Booking, resp *models.BookingResponse) error {
	switch booking.Type {
	case domain.BookingTypeActivity:
		details, err := s.bookingRepo.GetActivityDetails(ctx, booking.ID)
		if err != nil {
			s.logger.Error("attachDetails: failed to get activity details for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: attachDetails - activity details error: %v", ErrInternal, err)
		}
		resp.ActivityDetails = models.FromDomainActivityDetails(details)
		resp.Reference = booking.Reference(details.Activity, details.SessionDate)

	case domain.BookingTypePackage:
		details, err := s.bookingRepo.GetPackageDetails(ctx, booking.ID)
		if err != nil {
			s.logger.Error("attachDetails: failed to get package details for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: attachDetails - package details error: %v", ErrInternal, err)
		}
		resp.PackageDetails = models.FromDomainPackageDetails(details)
		if len(details.Sessions) > 0 && len(details.Sessions[0].PersonActivities) > 0 {
			resp.Reference = booking.Reference(details.Sessions[0].PersonActivities[0].Activity, details.CheckInDate)
		}

	case domain.BookingTypeStayOnly:
		details, err := s.bookingRepo.GetStayDetails(ctx, booking.ID)
		if err != nil {
			s.logger.Error("attachDetails: failed to get stay details for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: attachDetails - stay details error: %v", ErrInternal, err)
		}
		resp.StayDetails = models.FromDomainStayDetails(details)
	}

	return nil
}

// GetAll получает бронирования для админского списка с фильтрацией
func (s *Service) GetAll(ctx context.Context, req *models.GetAllBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetAll: fetching bookings, search=%q", req.Search)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetAll: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	items, err := s.bookingRepo.GetAll(ctx, filter)
	if err != nil {
		s.logger.Error("GetAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetAll - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAll: successfully fetched %d bookings", len(items))
	return models.FromDomainBookingList(items), nil
}

// UpdatePaymentStatus обновляет статус оплаты бронирования
func (s *Service) UpdatePaymentStatus(ctx context.Context, id int64, req *models.UpdatePaymentStatusRequest) error {
	s.logger.Info("UpdatePaymentStatus: booking id=%d, status=%s", id, req.PaymentStatus)

	status := domain.PaymentStatus(req.PaymentStatus)
	if !status.IsValid() {
		s.logger.Warn("UpdatePaymentStatus: invalid status %q for booking id=%d", req.PaymentStatus, id)
		return fmt.Errorf("%w: invalid payment status %q", ErrInvalidInput, req.PaymentStatus)
	}

	err := s.bookingRepo.UpdatePaymentStatus(ctx, id, status, req.PaymentRef)
	if err != nil {
		if errors.Is(err, bookingsRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdatePaymentStatus: booking id=%d not found", id)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdatePaymentStatus: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: UpdatePaymentStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdatePaymentStatus: booking id=%d updated to %s", id, status)
	return nil
}

// Cancel отменяет бронирование и возвращает места в леджер вместимости.
// Повторная отмена отклоняется до каких-либо возвратов. Строка
// бронирования блокируется FOR UPDATE внутри сериализуемой транзакции,
// возвраты идут в порядке (дата, слот, активность).
func (s *Service) Cancel(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d", id)

	var cancelled *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, bookingsRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d is already %s", id, booking.Status)
			return ErrCannotCancel
		}

		claims, err := s.collectClaims(txCtx, booking)
		if err != nil {
			return err
		}
		domain.SortClaims(claims)

		for _, claim := range claims {
			if err := s.slotRepo.ReleaseActivity(txCtx, claim); err != nil {
				s.logger.Error("Cancel: failed to release %s: %v", claim.Key(), err)
				return fmt.Errorf("%w: Cancel - release error: %v", ErrInternal, err)
			}
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, id, domain.StatusCancelled); err != nil {
			s.logger.Error("Cancel: failed to update status for booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Cancel - status update error: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusCancelled
		cancelled = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: booking id=%d cancelled", id)
	return models.FromDomainBooking(cancelled), nil
}

// collectClaims собирает кортежи вместимости, занятые бронированием
func (s *Service) collectClaims(ctx context.Context, booking *domain.Booking) ([]domain.CapacityClaim, error) {
	switch booking.Type {
	case domain.BookingTypeActivity:
		details, err := s.bookingRepo.GetActivityDetails(ctx, booking.ID)
		if err != nil {
			s.logger.Error("collectClaims: failed to get activity details for booking id=%d: %v", booking.ID, err)
			return nil, fmt.Errorf("%w: collectClaims - activity details error: %v", ErrInternal, err)
		}
		people, err := s.bookingRepo.GetPeople(ctx, booking.ID)
		if err != nil {
			s.logger.Error("collectClaims: failed to get people for booking id=%d: %v", booking.ID, err)
			return nil, fmt.Errorf("%w: collectClaims - people error: %v", ErrInternal, err)
		}
		if len(people) == 0 {
			// строки участников отсутствуют только у старых записей,
			// для них бронирование резервировалось одной группой
			return []domain.CapacityClaim{{
				SlotID:      details.SlotID,
				BookingDate: details.SessionDate,
				Activity:    details.Activity,
				Count:       booking.TotalPeople,
			}}, nil
		}

		// возвращаем ровно те группы активностей, что были
		// зарезервированы при создании
		counts := make(map[domain.ActivityType]int)
		for _, p := range people {
			activity := details.Activity
			if p.Activity != nil {
				activity = *p.Activity
			}
			counts[activity]++
		}
		claims := make([]domain.CapacityClaim, 0, len(counts))
		for activity, count := range counts {
			claims = append(claims, domain.CapacityClaim{
				SlotID:      details.SlotID,
				BookingDate: details.SessionDate,
				Activity:    activity,
				Count:       count,
			})
		}
		return claims, nil

	case domain.BookingTypePackage:
		details, err := s.bookingRepo.GetPackageDetails(ctx, booking.ID)
		if err != nil {
			s.logger.Error("collectClaims: failed to get package details for booking id=%d: %v", booking.ID, err)
			return nil, fmt.Errorf("%w: collectClaims - package details error: %v", ErrInternal, err)
		}
		claims := make([]domain.CapacityClaim, 0, len(details.Sessions))
		for _, session := range details.Sessions {
			for activity, count := range session.ActivityGroups() {
				claims = append(claims, domain.CapacityClaim{
					SlotID:      session.SlotID,
					BookingDate: session.SessionDate,
					Activity:    activity,
					Count:       count,
				})
			}
		}
		return claims, nil

	default:
		// проживание без активностей не держит мест в леджере
		return nil, nil
	}
}
