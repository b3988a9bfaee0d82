package slots

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/wavehouse/MSC-BookingService/internal/domain"
	"github.com/wavehouse/MSC-BookingService/pkg/dbmetrics"
	"github.com/wavehouse/MSC-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий слотов расписания и леджера вместимости
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый слот расписания
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns(
			"day_of_week",
			"start_time",
			"end_time",
			"capacity",
			"active",
		).
		Values(
			slot.DayOfWeek,
			slot.StartTime,
			slot.EndTime,
			slot.Capacity,
			slot.Active,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// Update обновляет окно и вместимость слота
func (r *Repository) Update(ctx context.Context, slot *domain.Slot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("day_of_week", slot.DayOfWeek).
		Set("start_time", slot.StartTime).
		Set("end_time", slot.EndTime).
		Set("capacity", slot.Capacity).
		Set("active", slot.Active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slot.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// Deactivate деактивирует слот. Слоты не удаляются физически,
// на них ссылаются существующие бронирования.
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := slotSelect().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// GetByDay получает активные слоты на день недели, отсортированные по времени начала
func (r *Repository) GetByDay(ctx context.Context, dayOfWeek int) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := slotSelect().
		Where(squirrel.Eq{"day_of_week": dayOfWeek, "active": true}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// GetAll получает все слоты недельного расписания, включая неактивные
func (r *Repository) GetAll(ctx context.Context) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := slotSelect().
		OrderBy("day_of_week ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// SetActivityCapacity задает потолок вместимости активности в слоте.
// Повторный вызов обновляет существующий потолок.
func (r *Repository) SetActivityCapacity(ctx context.Context, cap *domain.ActivityCapacity) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_activities").
		Columns("slot_id", "activity_type", "max_capacity").
		Values(cap.SlotID, cap.Activity, cap.MaxCapacity).
		Suffix("ON CONFLICT (slot_id, activity_type) DO UPDATE SET max_capacity = EXCLUDED.max_capacity").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetActivityCapacity - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetActivityCapacity - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetActivityConfig получает настроенные активности слота с потолками
func (r *Repository) GetActivityConfig(ctx context.Context, slotID int64) ([]*domain.ActivityCapacity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_id", "activity_type", "max_capacity").
		From("slot_activities").
		Where(squirrel.Eq{"slot_id": slotID}).
		OrderBy("activity_type ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActivityConfig - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActivityConfig - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	configs := make([]*domain.ActivityCapacity, 0)
	for rows.Next() {
		var cfg domain.ActivityCapacity
		if err := rows.Scan(&cfg.SlotID, &cfg.Activity, &cfg.MaxCapacity); err != nil {
			return nil, fmt.Errorf("%w: GetActivityConfig - scan row: %v", ErrScanRow, err)
		}
		configs = append(configs, &cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActivityConfig - rows error: %v", ErrScanRow, err)
	}

	return configs, nil
}

// CheckActivity проверяет, что активность настроена в слоте, и возвращает её потолок
func (r *Repository) CheckActivity(ctx context.Context, slotID int64, activity domain.ActivityType) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("max_capacity").
		From("slot_activities").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.Eq{"activity_type": activity}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CheckActivity - build select query: %v", ErrBuildQuery, err)
	}

	var maxCapacity int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&maxCapacity)
	if err == sql.ErrNoRows {
		return 0, ErrActivityNotConfigured
	}
	if err != nil {
		return 0, fmt.Errorf("%w: CheckActivity - scan max_capacity: %v", ErrScanRow, err)
	}

	return maxCapacity, nil
}

// ReserveActivity атомарно бронирует count мест в кортеже (слот, дата, активность).
// Один условный upsert: строка леджера создается лениво при первом бронировании,
// инкремент проходит только если итоговый booked_count не превышает потолок.
// Нулевой rows affected означает нехватку мест. Вызывающий обязан заранее
// проверить CheckActivity, чтобы отличить ненастроенную активность.
func (r *Repository) ReserveActivity(ctx context.Context, claim domain.CapacityClaim) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	seed := squirrel.Select("sa.slot_id").
		Column(squirrel.Expr("?::date", claim.BookingDate.Format(domain.DateFormat))).
		Column("sa.activity_type").
		Column(squirrel.Expr("?::int", claim.Count)).
		Column("sa.max_capacity").
		From("slot_activities sa").
		Where(squirrel.Eq{"sa.slot_id": claim.SlotID}).
		Where(squirrel.Eq{"sa.activity_type": claim.Activity}).
		Where(squirrel.Expr("sa.max_capacity >= ?", claim.Count))

	query, args, err := psqlbuilder.Insert("slot_activity_availability").
		Columns("slot_id", "booking_date", "activity_type", "booked_count", "max_capacity").
		Select(seed).
		Suffix(`ON CONFLICT (slot_id, booking_date, activity_type) DO UPDATE
			SET booked_count = slot_activity_availability.booked_count + EXCLUDED.booked_count,
			    updated_at = NOW()
			WHERE slot_activity_availability.booked_count + EXCLUDED.booked_count <= slot_activity_availability.max_capacity`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReserveActivity - build upsert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ReserveActivity - execute upsert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ReserveActivity - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrInsufficientCapacity
	}

	return nil
}

// ReleaseActivity возвращает count мест в кортеж (слот, дата, активность).
// Счетчик не опускается ниже нуля, отсутствие строки леджера не считается ошибкой.
func (r *Repository) ReleaseActivity(ctx context.Context, claim domain.CapacityClaim) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_activity_availability").
		Set("booked_count", squirrel.Expr("GREATEST(0, booked_count - ?)", claim.Count)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"slot_id":       claim.SlotID,
			"booking_date":  claim.BookingDate.Format(domain.DateFormat),
			"activity_type": claim.Activity,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReleaseActivity - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseActivity - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// GetAvailability получает доступность активностей слота на дату.
// Для активностей без строки леджера booked_count равен нулю.
func (r *Repository) GetAvailability(ctx context.Context, slotID int64, date time.Time) ([]*domain.ActivityAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"sa.slot_id",
		"sa.activity_type",
		"COALESCE(av.booked_count, 0)",
		"sa.max_capacity",
	).
		From("slot_activities sa").
		LeftJoin(
			"slot_activity_availability av ON av.slot_id = sa.slot_id AND av.activity_type = sa.activity_type AND av.booking_date = ?",
			date.Format(domain.DateFormat),
		).
		Where(squirrel.Eq{"sa.slot_id": slotID}).
		OrderBy("sa.activity_type ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAvailability - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAvailability - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.ActivityAvailability, 0)
	for rows.Next() {
		var a domain.ActivityAvailability
		if err := rows.Scan(&a.SlotID, &a.Activity, &a.BookedCount, &a.MaxCapacity); err != nil {
			return nil, fmt.Errorf("%w: GetAvailability - scan row: %v", ErrScanRow, err)
		}
		a.BookingDate = date
		items = append(items, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAvailability - rows error: %v", ErrScanRow, err)
	}

	return items, nil
}

// MaxAvailableSpots лучший остаток по одной активности слота на дату.
// Исторический агрегатный критерий: группа считается размещаемой,
// если хотя бы одна активность вмещает её целиком.
func (r *Repository) MaxAvailableSpots(ctx context.Context, slotID int64, date time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COALESCE(MAX(sa.max_capacity - COALESCE(av.booked_count, 0)), 0)",
	).
		From("slot_activities sa").
		LeftJoin(
			"slot_activity_availability av ON av.slot_id = sa.slot_id AND av.activity_type = sa.activity_type AND av.booking_date = ?",
			date.Format(domain.DateFormat),
		).
		Where(squirrel.Eq{"sa.slot_id": slotID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: MaxAvailableSpots - build select query: %v", ErrBuildQuery, err)
	}

	var spots int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&spots); err != nil {
		return 0, fmt.Errorf("%w: MaxAvailableSpots - scan spots: %v", ErrScanRow, err)
	}

	return spots, nil
}

// FindSlotForDate подбирает первый по времени активный слот на дату,
// в котором хотя бы одна активность вмещает всю группу
func (r *Repository) FindSlotForDate(ctx context.Context, date time.Time, peopleCount int) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dayOfWeek := int(date.Weekday())
	if dayOfWeek == 0 {
		dayOfWeek = 7
	}

	query, args, err := psqlbuilder.Select("s.id").
		From("slots s").
		Join("slot_activities sa ON sa.slot_id = s.id").
		LeftJoin(
			"slot_activity_availability av ON av.slot_id = s.id AND av.activity_type = sa.activity_type AND av.booking_date = ?",
			date.Format(domain.DateFormat),
		).
		Where(squirrel.Eq{"s.active": true, "s.day_of_week": dayOfWeek}).
		GroupBy("s.id", "s.start_time").
		Having("MAX(sa.max_capacity - COALESCE(av.booked_count, 0)) >= ?", peopleCount).
		OrderBy("s.start_time ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: FindSlotForDate - build select query: %v", ErrBuildQuery, err)
	}

	var slotID int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&slotID)
	if err == sql.ErrNoRows {
		return 0, ErrNoSlotAvailable
	}
	if err != nil {
		return 0, fmt.Errorf("%w: FindSlotForDate - scan slot id: %v", ErrScanRow, err)
	}

	return slotID, nil
}

// UtilizationReport строки леджера за период для отчета по загрузке
func (r *Repository) UtilizationReport(ctx context.Context, from, to time.Time) ([]*domain.ActivityAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"slot_id",
		"booking_date",
		"activity_type",
		"booked_count",
		"max_capacity",
	).
		From("slot_activity_availability").
		Where(squirrel.GtOrEq{"booking_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"booking_date": to.Format(domain.DateFormat)}).
		OrderBy("booking_date ASC, slot_id ASC, activity_type ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UtilizationReport - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: UtilizationReport - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.ActivityAvailability, 0)
	for rows.Next() {
		var a domain.ActivityAvailability
		if err := rows.Scan(&a.SlotID, &a.BookingDate, &a.Activity, &a.BookedCount, &a.MaxCapacity); err != nil {
			return nil, fmt.Errorf("%w: UtilizationReport - scan row: %v", ErrScanRow, err)
		}
		items = append(items, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: UtilizationReport - rows error: %v", ErrScanRow, err)
	}

	return items, nil
}

func slotSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"day_of_week",
		"start_time",
		"end_time",
		"capacity",
		"active",
		"created_at",
		"updated_at",
	).From("slots")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var slot domain.Slot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.DayOfWeek,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Capacity,
		&slot.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	result := make([]*domain.Slot, 0)

	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		result = append(result, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
