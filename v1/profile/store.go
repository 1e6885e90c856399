package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//
// ──────────────────────────────────────────────────────────────
//   PROFILE STORE OPERATIONS
// ──────────────────────────────────────────────────────────────
//
// Typed CRUD operations for the relational side of the platform:
// user profiles, therapy session records, generated wellness plans,
// and calendar appointments. All methods translate GORM errors onto
// the package sentinels before returning.
//

// ── User profiles ────────────────────────────────────────────────────────────

// SaveProfile inserts or updates a profile. A missing ID gets a fresh UUID.
func (s *Store) SaveProfile(ctx context.Context, p *UserProfile) error {
	if p == nil {
		return fmt.Errorf("%w: nil profile", ErrInvalidInput)
	}
	if p.Email == "" {
		return fmt.Errorf("%w: profile email is required", ErrInvalidInput)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	return TranslateError(s.DB().WithContext(ctx).Save(p).Error)
}

// GetProfile fetches a profile by ID.
func (s *Store) GetProfile(ctx context.Context, id string) (*UserProfile, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty profile id", ErrInvalidInput)
	}

	var p UserProfile
	if err := s.DB().WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, TranslateError(err)
	}
	return &p, nil
}

// GetProfileByEmail fetches a profile by its unique email.
func (s *Store) GetProfileByEmail(ctx context.Context, email string) (*UserProfile, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: empty email", ErrInvalidInput)
	}

	var p UserProfile
	if err := s.DB().WithContext(ctx).First(&p, "email = ?", email).Error; err != nil {
		return nil, TranslateError(err)
	}
	return &p, nil
}

// ── Therapy sessions ─────────────────────────────────────────────────────────

// SaveSession inserts or updates a therapy session record.
func (s *Store) SaveSession(ctx context.Context, session *TherapySession) error {
	if session == nil {
		return fmt.Errorf("%w: nil session", ErrInvalidInput)
	}
	if session.UserID == "" {
		return fmt.Errorf("%w: session user id is required", ErrInvalidInput)
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now().UTC()
	}

	return TranslateError(s.DB().WithContext(ctx).Save(session).Error)
}

// ListSessions returns a user's sessions, newest first.
func (s *Store) ListSessions(ctx context.Context, userID string, limit int) ([]TherapySession, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 50
	}

	var sessions []TherapySession
	err := s.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, TranslateError(err)
	}
	return sessions, nil
}

// CountCrisisFlags counts crisis-flagged sessions for a user since the
// given time. The orchestrator uses this to escalate recurring flags.
func (s *Store) CountCrisisFlags(ctx context.Context, userID string, since time.Time) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}

	var count int64
	err := s.DB().WithContext(ctx).
		Model(&TherapySession{}).
		Where("user_id = ? AND crisis_flagged = ? AND started_at >= ?", userID, true, since).
		Count(&count).Error
	if err != nil {
		return 0, TranslateError(err)
	}
	return count, nil
}

// ── Wellness plans ───────────────────────────────────────────────────────────

// SavePlan inserts or updates a wellness plan.
func (s *Store) SavePlan(ctx context.Context, plan *WellnessPlan) error {
	if plan == nil {
		return fmt.Errorf("%w: nil plan", ErrInvalidInput)
	}
	if plan.UserID == "" {
		return fmt.Errorf("%w: plan user id is required", ErrInvalidInput)
	}
	switch plan.Kind {
	case PlanKindFitness, PlanKindNutrition, PlanKindMental:
	default:
		return fmt.Errorf("%w: unknown plan kind %q", ErrInvalidInput, plan.Kind)
	}
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.Status == "" {
		plan.Status = PlanStatusActive
	}
	if plan.ActiveFrom.IsZero() {
		plan.ActiveFrom = time.Now().UTC()
	}

	return TranslateError(s.DB().WithContext(ctx).Save(plan).Error)
}

// ActivePlans returns a user's active plans, optionally filtered by kind
// (empty kind returns all).
func (s *Store) ActivePlans(ctx context.Context, userID, kind string) ([]WellnessPlan, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}

	query := s.DB().WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, PlanStatusActive)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var plans []WellnessPlan
	if err := query.Order("active_from DESC").Find(&plans).Error; err != nil {
		return nil, TranslateError(err)
	}
	return plans, nil
}

// ArchivePlan marks a plan archived. Archiving an unknown plan returns
// ErrNotFound.
func (s *Store) ArchivePlan(ctx context.Context, planID string) error {
	if planID == "" {
		return fmt.Errorf("%w: empty plan id", ErrInvalidInput)
	}

	result := s.DB().WithContext(ctx).
		Model(&WellnessPlan{}).
		Where("id = ?", planID).
		Update("status", PlanStatusArchived)
	if result.Error != nil {
		return TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ── Appointments ─────────────────────────────────────────────────────────────

// SaveAppointment inserts or updates an appointment.
func (s *Store) SaveAppointment(ctx context.Context, appt *Appointment) error {
	if appt == nil {
		return fmt.Errorf("%w: nil appointment", ErrInvalidInput)
	}
	if appt.UserID == "" {
		return fmt.Errorf("%w: appointment user id is required", ErrInvalidInput)
	}
	if appt.Title == "" {
		return fmt.Errorf("%w: appointment title is required", ErrInvalidInput)
	}
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	if appt.Status == "" {
		appt.Status = AppointmentStatusScheduled
	}

	return TranslateError(s.DB().WithContext(ctx).Save(appt).Error)
}

// UpcomingAppointments returns a user's scheduled appointments starting at
// or after the given time, soonest first.
func (s *Store) UpcomingAppointments(ctx context.Context, userID string, from time.Time) ([]Appointment, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}

	var appointments []Appointment
	err := s.DB().WithContext(ctx).
		Where("user_id = ? AND status = ? AND starts_at >= ?", userID, AppointmentStatusScheduled, from).
		Order("starts_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, TranslateError(err)
	}
	return appointments, nil
}

// GetAppointment returns one appointment by ID.
func (s *Store) GetAppointment(ctx context.Context, appointmentID string) (*Appointment, error) {
	if appointmentID == "" {
		return nil, fmt.Errorf("%w: empty appointment id", ErrInvalidInput)
	}

	var appt Appointment
	err := s.DB().WithContext(ctx).Where("id = ?", appointmentID).First(&appt).Error
	if err != nil {
		return nil, TranslateError(err)
	}
	return &appt, nil
}

// CancelAppointment marks an appointment cancelled.
func (s *Store) CancelAppointment(ctx context.Context, appointmentID string) error {
	if appointmentID == "" {
		return fmt.Errorf("%w: empty appointment id", ErrInvalidInput)
	}

	result := s.DB().WithContext(ctx).
		Model(&Appointment{}).
		Where("id = ?", appointmentID).
		Update("status", AppointmentStatusCancelled)
	if result.Error != nil {
		return TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ── Transactions ─────────────────────────────────────────────────────────────

// Transaction executes fn within a database transaction. The callback
// receives a transaction-scoped Store; if fn returns an error the
// transaction is rolled back, otherwise it is committed.
//
// Example:
//
//	err := store.Transaction(ctx, func(tx *profile.Store) error {
//	    if err := tx.SaveSession(ctx, session); err != nil {
//	        return err
//	    }
//	    return tx.SaveAppointment(ctx, followUp)
//	})
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txStore := &Store{
			cfg:             s.cfg,
			shutdownSignal:  s.shutdownSignal,
			retryChanSignal: s.retryChanSignal,
		}
		txStore.client.Store(tx)
		return fn(txStore)
	})
}
