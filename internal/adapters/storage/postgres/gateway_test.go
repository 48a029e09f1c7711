package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-scheduler/internal/domain/pets"
)

const petID = "b2f7a3f0-0000-4000-8000-000000000002"

func newTestGateway(t *testing.T) (*Gateway, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewGateway(db), mock
}

func TestGateway_EnsureSchema(t *testing.T) {
	g, mock := newTestGateway(t)

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS pets`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, g.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_Save(t *testing.T) {
	reg := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	slot := time.Date(2026, 3, 12, 10, 30, 0, 0, time.Local)
	state := []pets.Pet{{
		ID:               petID,
		Name:             "Milo",
		Breed:            "Labrador",
		Age:              3,
		OwnerName:        "Ana",
		ContactInfo:      "555-0101",
		RegistrationDate: reg,
		Appointments: []pets.Appointment{
			{ID: "a-1", Type: pets.AppointmentTypeCheckup, DateTime: slot, Notes: "fasting", Seq: 7},
		},
	}}

	testCases := []struct {
		name             string
		mockExpectations func(mock sqlmock.Sqlmock)
		expectedErr      bool
	}{
		{
			name: "Replaces both tables and commits",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM appointments`)).
					WillReturnResult(sqlmock.NewResult(0, 4))
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM pets`)).
					WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO pets`)).
					WithArgs(petID, 0, "Milo", "Labrador", 3, "Ana", "555-0101", reg).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO appointments`)).
					WithArgs("a-1", petID, 0, "checkup", slot, "fasting", int64(7)).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			expectedErr: false,
		},
		{
			name: "Insert failure rolls back",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM appointments`)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM pets`)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO pets`)).
					WillReturnError(errors.New("disk full"))
				mock.ExpectRollback()
			},
			expectedErr: true,
		},
		{
			name: "Begin failure",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
			},
			expectedErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, mock := newTestGateway(t)
			tc.mockExpectations(mock)

			err := g.Save(context.Background(), state)
			if tc.expectedErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGateway_Load(t *testing.T) {
	g, mock := newTestGateway(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM pets`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "breed", "age", "owner_name", "contact_info", "registration_date",
		}).
			AddRow(petID, "Milo", "Labrador", 3, "Ana", "555-0101", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)).
			AddRow("0a1e2d3c-0000-4000-8000-000000000001", "Luna", "Poodle", 1, "Bruno", "", nil))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM appointments`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pet_id", "type", "scheduled_at", "notes", "bucket_seq"}).
			AddRow("a-1", petID, "checkup", time.Date(2026, 3, 12, 10, 30, 0, 0, time.UTC), "fasting", int64(4)).
			AddRow("a-2", petID, "grooming", time.Date(2026, 3, 13, 8, 0, 0, 0, time.UTC), "", int64(2)).
			AddRow("a-x", "orphan", "checkup", time.Date(2026, 3, 13, 8, 0, 0, 0, time.UTC), "", int64(3)))

	got, err := g.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, got, 2)
	assert.Equal(t, "Milo", got[0].Name)
	assert.Equal(t, 3, got[0].Age)
	assert.True(t, got[0].RegistrationDate.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)))
	assert.True(t, got[1].RegistrationDate.IsZero())

	require.Len(t, got[0].Appointments, 2)
	assert.Equal(t, "a-1", got[0].Appointments[0].ID)
	assert.Equal(t, pets.AppointmentTypeCheckup, got[0].Appointments[0].Type)
	assert.True(t, got[0].Appointments[0].DateTime.Equal(time.Date(2026, 3, 12, 10, 30, 0, 0, time.Local)))
	assert.Equal(t, int64(4), got[0].Appointments[0].Seq)
	assert.Equal(t, "a-2", got[0].Appointments[1].ID)
	assert.Equal(t, int64(2), got[0].Appointments[1].Seq)
	assert.Empty(t, got[1].Appointments)
}

func TestGateway_Load_QueryError(t *testing.T) {
	g, mock := newTestGateway(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM pets`)).WillReturnError(errors.New("relation does not exist"))

	_, err := g.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load pets")
	assert.NoError(t, mock.ExpectationsWereMet())
}
