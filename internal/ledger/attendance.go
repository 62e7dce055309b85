package ledger

import (
	"context"

	"github.com/angelmondragon/cellar-backend/internal/attendance"
	"github.com/angelmondragon/cellar-backend/internal/authz"
	"github.com/angelmondragon/cellar-backend/internal/dashboard"
	"github.com/angelmondragon/cellar-backend/internal/identity"
	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/cellar-backend/pkg/errors"
)

const (
	opClockIn  = "clock_in"
	opClockOut = "clock_out"
)

func (s *service) ClockIn(ctx context.Context, userID string) (*models.AttendanceRecord, error) {
	userID = sanitize(userID)

	var record models.AttendanceRecord
	err := s.mutate(ctx, opClockIn, authz.PermissionPublic, func(ctx context.Context, tx *txn, _ *identity.User) error {
		if userID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "userId is required")
		}
		now, day := s.now(), s.today()
		if attendance.FindOpen(tx.next.attendanceRecords.values(), userID, day) >= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "User already clocked in today")
		}

		record = models.AttendanceRecord{
			ID:     s.newID(),
			UserID: userID,
			TimeIn: now,
			Date:   day,
		}
		tx.attendanceRecords().put(record)

		if user, ok := tx.next.users.get(userID); ok {
			user = user.Clone()
			user.IsActive = true
			user.LastTimeIn = &now
			tx.users().put(user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *service) ClockOut(ctx context.Context, userID string) (*models.AttendanceRecord, error) {
	userID = sanitize(userID)

	var record models.AttendanceRecord
	err := s.mutate(ctx, opClockOut, authz.PermissionPublic, func(ctx context.Context, tx *txn, _ *identity.User) error {
		now := s.now()
		records := tx.next.attendanceRecords.values()
		idx := attendance.FindOpen(records, userID, s.today())
		if idx < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "No active clock-in record found for today")
		}

		record = records[idx]
		duration := attendance.DurationMinutes(record.TimeIn, now)
		record.TimeOut = &now
		record.Duration = &duration
		tx.attendanceRecords().put(record)

		if user, ok := tx.next.users.get(userID); ok {
			user = user.Clone()
			user.IsActive = false
			user.LastTimeOut = &now
			tx.users().put(user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *service) TodayAttendance(ctx context.Context) []models.AttendanceRecord {
	var out []models.AttendanceRecord
	s.view(func(st *state) { out = attendance.OnDay(st.attendanceRecords.values(), s.today()) })
	return out
}

func (s *service) AttendanceRecords(ctx context.Context) []models.AttendanceRecord {
	var out []models.AttendanceRecord
	s.view(func(st *state) { out = st.attendanceRecords.values() })
	return out
}

func (s *service) ActiveStaff(ctx context.Context) []models.User {
	var out []models.User
	s.view(func(st *state) { out = dashboard.ActiveStaff(st.users.values()) })
	return out
}
