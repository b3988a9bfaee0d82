package bookings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/wavehouse/MSC-BookingService/internal/domain"
	"github.com/wavehouse/MSC-BookingService/pkg/dbmetrics"
	"github.com/wavehouse/MSC-BookingService/pkg/psqlbuilder"
)

// adminListLimit ограничение выдачи админского списка бронирований
const adminListLimit = 100

// Repository репозиторий бронирований и их детальных записей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись бронирования. Детальные записи и участники
// добавляются отдельными вызовами внутри той же транзакции.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"customer_id",
			"booking_type",
			"total_people",
			"base_amount",
			"tax_amount",
			"total_amount",
			"payment_status",
			"payment_ref",
			"status",
		).
		Values(
			booking.CustomerID,
			booking.Type,
			booking.TotalPeople,
			booking.BaseAmount,
			booking.TaxAmount,
			booking.TotalAmount,
			booking.PaymentStatus,
			booking.PaymentRef,
			booking.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// AddPeople добавляет участников бронирования одним запросом
func (r *Repository) AddPeople(ctx context.Context, bookingID int64, people []domain.BookingPerson) error {
	if len(people) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("booking_people").
		Columns("booking_id", "name", "age", "activity_type")

	for _, p := range people {
		insertBuilder = insertBuilder.Values(bookingID, p.Name, p.Age, p.Activity)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddPeople - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddPeople - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// CreateActivityDetails создает детальную запись бронирования активности
func (r *Repository) CreateActivityDetails(ctx context.Context, d *domain.ActivityDetails) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("activity_details").
		Columns("booking_id", "activity_type", "session_date", "slot_id").
		Values(d.BookingID, d.Activity, d.SessionDate.Format(domain.DateFormat), d.SlotID).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreateActivityDetails - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateActivityDetails - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// CreatePackageDetails создает детальную запись пакета вместе с сессиями
// и назначениями активностей по участникам
func (r *Repository) CreatePackageDetails(ctx context.Context, d *domain.PackageDetails) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("package_details").
		Columns("booking_id", "package_type", "accommodation_type", "check_in_date", "check_out_date").
		Values(
			d.BookingID,
			d.PackageType,
			d.Accommodation,
			d.CheckInDate.Format(domain.DateFormat),
			d.CheckOutDate.Format(domain.DateFormat),
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreatePackageDetails - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreatePackageDetails - execute insert: %v", ErrExecQuery, err)
	}

	for i := range d.Sessions {
		if err := r.createPackageSession(ctx, executor, d.BookingID, &d.Sessions[i]); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) createPackageSession(ctx context.Context, executor DBExecutor, bookingID int64, session *domain.PackageSession) error {
	query, args, err := psqlbuilder.Insert("package_sessions").
		Columns("booking_id", "session_number", "session_date", "slot_id").
		Values(bookingID, session.SessionNumber, session.SessionDate.Format(domain.DateFormat), session.SlotID).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: createPackageSession - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&session.ID); err != nil {
		return fmt.Errorf("%w: createPackageSession - execute insert: %v", ErrExecQuery, err)
	}

	if len(session.PersonActivities) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("package_session_people").
		Columns("session_id", "person_index", "activity_type")

	for _, pa := range session.PersonActivities {
		insertBuilder = insertBuilder.Values(session.ID, pa.PersonIndex, pa.Activity)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: createPackageSession - build people insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: createPackageSession - execute people insert: %v", ErrExecQuery, err)
	}

	return nil
}

// CreateStayDetails создает детальную запись проживания без активностей
func (r *Repository) CreateStayDetails(ctx context.Context, d *domain.StayDetails) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("stay_details").
		Columns("booking_id", "accommodation_type", "check_in_date", "check_out_date", "nights_count", "includes_meals").
		Values(
			d.BookingID,
			d.Accommodation,
			d.CheckInDate.Format(domain.DateFormat),
			d.CheckOutDate.Format(domain.DateFormat),
			d.NightsCount,
			d.IncludesMeals,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreateStayDetails - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateStayDetails - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает бронирование по ID. Строка блокируется FOR UPDATE,
// если вызов идет внутри транзакции (сценарий отмены).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := bookingSelect().
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetPeople получает участников бронирования в порядке добавления
func (r *Repository) GetPeople(ctx context.Context, bookingID int64) ([]*domain.BookingPerson, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "booking_id", "name", "age", "activity_type").
		From("booking_people").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPeople - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetPeople - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	people := make([]*domain.BookingPerson, 0)
	for rows.Next() {
		var p domain.BookingPerson
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Name, &p.Age, &p.Activity); err != nil {
			return nil, fmt.Errorf("%w: GetPeople - scan row: %v", ErrScanRow, err)
		}
		people = append(people, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetPeople - rows error: %v", ErrScanRow, err)
	}

	return people, nil
}

// GetActivityDetails получает детальную запись бронирования активности
func (r *Repository) GetActivityDetails(ctx context.Context, bookingID int64) (*domain.ActivityDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("booking_id", "activity_type", "session_date", "slot_id").
		From("activity_details").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActivityDetails - build select query: %v", ErrBuildQuery, err)
	}

	var d domain.ActivityDetails
	err = executor.QueryRowContext(ctx, query, args...).Scan(&d.BookingID, &d.Activity, &d.SessionDate, &d.SlotID)
	if err == sql.ErrNoRows {
		return nil, ErrDetailsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActivityDetails - scan row: %v", ErrScanRow, err)
	}

	return &d, nil
}

// GetPackageDetails получает детальную запись пакета вместе с сессиями
// и назначениями активностей по участникам
func (r *Repository) GetPackageDetails(ctx context.Context, bookingID int64) (*domain.PackageDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("booking_id", "package_type", "accommodation_type", "check_in_date", "check_out_date").
		From("package_details").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPackageDetails - build select query: %v", ErrBuildQuery, err)
	}

	var d domain.PackageDetails
	err = executor.QueryRowContext(ctx, query, args...).Scan(&d.BookingID, &d.PackageType, &d.Accommodation, &d.CheckInDate, &d.CheckOutDate)
	if err == sql.ErrNoRows {
		return nil, ErrDetailsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPackageDetails - scan row: %v", ErrScanRow, err)
	}

	sessions, err := r.getPackageSessions(ctx, executor, bookingID)
	if err != nil {
		return nil, err
	}
	d.Sessions = sessions

	return &d, nil
}

func (r *Repository) getPackageSessions(ctx context.Context, executor DBExecutor, bookingID int64) ([]domain.PackageSession, error) {
	query, args, err := psqlbuilder.Select("id", "session_number", "session_date", "slot_id").
		From("package_sessions").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("session_number ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getPackageSessions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getPackageSessions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sessions := make([]domain.PackageSession, 0)
	for rows.Next() {
		var s domain.PackageSession
		if err := rows.Scan(&s.ID, &s.SessionNumber, &s.SessionDate, &s.SlotID); err != nil {
			return nil, fmt.Errorf("%w: getPackageSessions - scan row: %v", ErrScanRow, err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getPackageSessions - rows error: %v", ErrScanRow, err)
	}

	for i := range sessions {
		assignments, err := r.getSessionPeople(ctx, executor, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].PersonActivities = assignments
	}

	return sessions, nil
}

func (r *Repository) getSessionPeople(ctx context.Context, executor DBExecutor, sessionID int64) ([]domain.PersonActivity, error) {
	query, args, err := psqlbuilder.Select("person_index", "activity_type").
		From("package_session_people").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("person_index ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getSessionPeople - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getSessionPeople - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	assignments := make([]domain.PersonActivity, 0)
	for rows.Next() {
		var pa domain.PersonActivity
		if err := rows.Scan(&pa.PersonIndex, &pa.Activity); err != nil {
			return nil, fmt.Errorf("%w: getSessionPeople - scan row: %v", ErrScanRow, err)
		}
		assignments = append(assignments, pa)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getSessionPeople - rows error: %v", ErrScanRow, err)
	}

	return assignments, nil
}

// GetStayDetails получает детальную запись проживания
func (r *Repository) GetStayDetails(ctx context.Context, bookingID int64) (*domain.StayDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"booking_id",
		"accommodation_type",
		"check_in_date",
		"check_out_date",
		"nights_count",
		"includes_meals",
	).
		From("stay_details").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStayDetails - build select query: %v", ErrBuildQuery, err)
	}

	var d domain.StayDetails
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&d.BookingID,
		&d.Accommodation,
		&d.CheckInDate,
		&d.CheckOutDate,
		&d.NightsCount,
		&d.IncludesMeals,
	)
	if err == sql.ErrNoRows {
		return nil, ErrDetailsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStayDetails - scan row: %v", ErrScanRow, err)
	}

	return &d, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// UpdatePaymentStatus обновляет статус оплаты и внешний референс платежа
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, paymentRef *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if paymentRef != nil {
		updateBuilder = updateBuilder.Set("payment_ref", *paymentRef)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// GetAll получает бронирования для админского списка с фильтрацией
// по периоду, типу, статусу оплаты и поиском по данным клиента
func (r *Repository) GetAll(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"b.id",
		"b.customer_id",
		"b.booking_type",
		"b.total_people",
		"b.base_amount",
		"b.tax_amount",
		"b.total_amount",
		"b.payment_status",
		"b.payment_ref",
		"b.status",
		"b.created_at",
		"b.updated_at",
	).
		From("bookings b")

	// Поиск по данным клиента требует джойна
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		selectBuilder = selectBuilder.
			Join("customers c ON c.id = b.customer_id").
			Where(squirrel.Or{
				squirrel.ILike{"c.name": pattern},
				squirrel.ILike{"c.email": pattern},
				squirrel.ILike{"c.phone": pattern},
			})
	}

	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"b.created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"b.created_at": *filter.DateTo})
	}
	if filter.Type != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.booking_type": *filter.Type})
	}
	if filter.PaymentStatus != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.payment_status": *filter.PaymentStatus})
	}

	query, args, err := selectBuilder.
		OrderBy("b.created_at DESC").
		Limit(adminListLimit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func bookingSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"customer_id",
		"booking_type",
		"total_people",
		"base_amount",
		"tax_amount",
		"total_amount",
		"payment_status",
		"payment_ref",
		"status",
		"created_at",
		"updated_at",
	).From("bookings")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var bookingType string
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&bookingType,
		&booking.TotalPeople,
		&booking.BaseAmount,
		&booking.TaxAmount,
		&booking.TotalAmount,
		&booking.PaymentStatus,
		&booking.PaymentRef,
		&booking.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	// старые строки могут нести legacy-тип surf_sup
	parsedType, err := domain.ParseBookingType(bookingType)
	if err != nil {
		return nil, err
	}
	booking.Type = parsedType

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		result = append(result, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
