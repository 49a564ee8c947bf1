package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bluemens/dermatopathology-scheduler/pkg/errors"
	"github.com/bluemens/dermatopathology-scheduler/pkg/model"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/solver"
)

// ScheduleRecord is the persisted header of one generated schedule.
type ScheduleRecord struct {
	ID          uuid.UUID `json:"id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Status      string    `json:"status"` // draft/published/archived
	SolveStatus string    `json:"solve_status"`
	Objective   int64     `json:"objective"`
	Nodes       int64     `json:"nodes"`
	SolveMillis int64     `json:"solve_millis"`
	GeneratedAt time.Time `json:"generated_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SlotRecord is one persisted half-day assignment. Roles is empty for an idle
// slot; the row is still stored so idleness survives the round trip.
type SlotRecord struct {
	ID            uuid.UUID `json:"id"`
	ScheduleID    uuid.UUID `json:"schedule_id"`
	PhysicianID   uuid.UUID `json:"physician_id"`
	PhysicianName string    `json:"physician_name"`
	Date          string    `json:"date"`
	Period        string    `json:"period"`
	Roles         []string  `json:"roles"`
}

// NewScheduleRecord builds the header record for a solved schedule.
func NewScheduleRecord(s *model.Schedule, res *solver.Result) *ScheduleRecord {
	rec := &ScheduleRecord{
		ID:          s.ID,
		Status:      "draft",
		Objective:   s.Objective,
		GeneratedAt: s.GeneratedAt,
	}
	if len(s.Input.Days) > 0 {
		rec.StartDate = s.Input.Days[0].Date
		rec.EndDate = s.Input.Days[len(s.Input.Days)-1].Date
	}
	if res != nil {
		rec.SolveStatus = string(res.Status)
		rec.Nodes = res.Nodes
		rec.SolveMillis = res.Duration.Milliseconds()
	}
	return rec
}

// SlotRecords flattens a schedule's slots for persistence.
func SlotRecords(s *model.Schedule) []*SlotRecord {
	recs := make([]*SlotRecord, 0, len(s.Slots))
	for _, slot := range s.Slots {
		roles := make([]string, 0, len(slot.Roles))
		for _, r := range slot.Roles {
			roles = append(roles, string(r))
		}
		recs = append(recs, &SlotRecord{
			ID:            uuid.New(),
			ScheduleID:    s.ID,
			PhysicianID:   slot.PhysicianID,
			PhysicianName: slot.PhysicianName,
			Date:          slot.Date,
			Period:        string(slot.Period),
			Roles:         roles,
		})
	}
	return recs
}

// ScheduleRepository persists schedules and their slot assignments.
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository creates a schedule repository.
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a schedule header.
func (r *ScheduleRepository) Create(ctx context.Context, rec *ScheduleRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	query := `
		INSERT INTO schedules (
			id, start_date, end_date, status, solve_status,
			objective, nodes, solve_millis, generated_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.StartDate, rec.EndDate, rec.Status, rec.SolveStatus,
		rec.Objective, rec.Nodes, rec.SolveMillis, rec.GeneratedAt, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "create schedule")
	}
	return nil
}

// GetByID fetches one schedule header.
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*ScheduleRecord, error) {
	query := `
		SELECT id, start_date, end_date, status, solve_status,
			objective, nodes, solve_millis, generated_at, created_at, updated_at
		FROM schedules
		WHERE id = $1
	`
	rec, err := scanSchedule(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("schedule", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "get schedule")
	}
	return rec, nil
}

// UpdateStatus moves a schedule through its lifecycle.
func (r *ScheduleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	switch status {
	case "draft", "published", "archived":
	default:
		return errors.InvalidInput("status", fmt.Sprintf("unknown status %q", status))
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedules SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "update schedule status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NotFound("schedule", id.String())
	}
	return nil
}

// List returns schedule headers matching the filter, newest first, plus the
// total match count.
func (r *ScheduleRepository) List(ctx context.Context, filter ListFilter) ([]*ScheduleRecord, int, error) {
	var conds []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.StartDate != "" {
		args = append(args, filter.StartDate)
		conds = append(conds, fmt.Sprintf("start_date >= $%d", len(args)))
	}
	if filter.EndDate != "" {
		args = append(args, filter.EndDate)
		conds = append(conds, fmt.Sprintf("end_date <= $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schedules"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.CodeDatabaseError, "count schedules")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT id, start_date, end_date, status, solve_status,
			objective, nodes, solve_millis, generated_at, created_at, updated_at
		FROM schedules%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.CodeDatabaseError, "list schedules")
	}
	defer rows.Close()

	var recs []*ScheduleRecord
	for rows.Next() {
		rec, err := scanSchedule(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.CodeDatabaseError, "scan schedule")
		}
		recs = append(recs, rec)
	}
	return recs, total, rows.Err()
}

// Delete removes a schedule and its slots.
func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM schedule_slots WHERE schedule_id = $1", id); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "delete schedule slots")
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = $1", id); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "delete schedule")
	}
	return nil
}

// slotInsertBatch bounds the number of rows per INSERT.
const slotInsertBatch = 500

// CreateSlots bulk-inserts slot records in batches.
func (r *ScheduleRepository) CreateSlots(ctx context.Context, slots []*SlotRecord) error {
	for start := 0; start < len(slots); start += slotInsertBatch {
		end := start + slotInsertBatch
		if end > len(slots) {
			end = len(slots)
		}
		if err := r.insertSlotBatch(ctx, slots[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *ScheduleRepository) insertSlotBatch(ctx context.Context, slots []*SlotRecord) error {
	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO schedule_slots (
			id, schedule_id, physician_id, physician_name, date, period, roles
		) VALUES `)

	args := make([]interface{}, 0, len(slots)*7)
	for i, s := range slots {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 7
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args, s.ID, s.ScheduleID, s.PhysicianID, s.PhysicianName,
			s.Date, s.Period, pq.Array(s.Roles))
	}

	if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "insert schedule slots")
	}
	return nil
}

// GetSlots returns all slots of a schedule ordered by physician, date, period.
func (r *ScheduleRepository) GetSlots(ctx context.Context, scheduleID uuid.UUID) ([]*SlotRecord, error) {
	query := `
		SELECT id, schedule_id, physician_id, physician_name, date, period, roles
		FROM schedule_slots
		WHERE schedule_id = $1
		ORDER BY physician_name, date, period DESC
	`
	return r.querySlots(ctx, query, scheduleID)
}

// GetSlotsByPhysician returns one physician's slots in a date range across all
// schedules.
func (r *ScheduleRepository) GetSlotsByPhysician(ctx context.Context, physicianID uuid.UUID, startDate, endDate string) ([]*SlotRecord, error) {
	query := `
		SELECT id, schedule_id, physician_id, physician_name, date, period, roles
		FROM schedule_slots
		WHERE physician_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, period DESC
	`
	return r.querySlots(ctx, query, physicianID, startDate, endDate)
}

func (r *ScheduleRepository) querySlots(ctx context.Context, query string, args ...interface{}) ([]*SlotRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "query slots")
	}
	defer rows.Close()

	var slots []*SlotRecord
	for rows.Next() {
		s := &SlotRecord{}
		if err := rows.Scan(&s.ID, &s.ScheduleID, &s.PhysicianID, &s.PhysicianName,
			&s.Date, &s.Period, pq.Array(&s.Roles)); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "scan slot")
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func scanSchedule(s Scanner) (*ScheduleRecord, error) {
	rec := &ScheduleRecord{}
	err := s.Scan(
		&rec.ID, &rec.StartDate, &rec.EndDate, &rec.Status, &rec.SolveStatus,
		&rec.Objective, &rec.Nodes, &rec.SolveMillis, &rec.GeneratedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}
