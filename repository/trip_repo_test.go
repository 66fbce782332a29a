package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var activeTripsQuery = regexp.QuoteMeta(`SELECT id, status, document FROM trips WHERE status = ? ORDER BY created_at, id`)

func TestTripRepository_FindActiveTrips(t *testing.T) {
	db, mock := newMock(t)
	rows := sqlmock.NewRows([]string{"id", "status", "document"}).
		AddRow("t1", "active", `{"title":"Beach Escape","keywords":["beach"],"rating":5,"imageURLs":["a.jpg"]}`).
		AddRow("t2", "active", `{"_id":"mongo-id","title":"Mountain Trek","difficulty":"hard"}`).
		AddRow("t3", "active", nil)
	mock.ExpectQuery(activeTripsQuery).WithArgs("active").WillReturnRows(rows)

	trips, err := NewTripRepository(db, time.Second).FindActiveTrips(context.Background())

	require.NoError(t, err)
	require.Len(t, trips, 3)

	assert.Equal(t, "t1", trips[0].ID)
	assert.Equal(t, "Beach Escape", trips[0].Title)
	assert.Equal(t, "active", trips[0].Status)
	assert.Contains(t, trips[0].Extra, "imageURLs")

	assert.Equal(t, "mongo-id", trips[1].ID, "id stored in the document wins")
	assert.Equal(t, "t3", trips[2].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepository_SkipsMalformedDocuments(t *testing.T) {
	db, mock := newMock(t)
	rows := sqlmock.NewRows([]string{"id", "status", "document"}).
		AddRow("t1", "active", `{"title":`).
		AddRow("t2", "active", `{"title":"Fine"}`)
	mock.ExpectQuery(activeTripsQuery).WithArgs("active").WillReturnRows(rows)

	trips, err := NewTripRepository(db, time.Second).FindActiveTrips(context.Background())

	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "Fine", trips[0].Title)
}

func TestTripRepository_KeepsTripsWithMistypedFields(t *testing.T) {
	db, mock := newMock(t)
	rows := sqlmock.NewRows([]string{"id", "status", "document"}).
		AddRow("t1", "active", `{"title":"Hampi","rating":"4.8","estimatedCost":{"car":{"total":300},"bike":"n/a"}}`)
	mock.ExpectQuery(activeTripsQuery).WithArgs("active").WillReturnRows(rows)

	trips, err := NewTripRepository(db, time.Second).FindActiveTrips(context.Background())

	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "Hampi", trips[0].Title)
	assert.Nil(t, trips[0].Rating)
	total, ok := trips[0].EstimatedCost.CarTotal()
	require.True(t, ok)
	assert.Equal(t, 300.0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepository_Empty(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(activeTripsQuery).WithArgs("active").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "document"}))

	trips, err := NewTripRepository(db, time.Second).FindActiveTrips(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, trips)
	assert.Empty(t, trips)
}

func TestTripRepository_QueryError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(activeTripsQuery).WithArgs("active").WillReturnError(errors.New("timeout"))

	_, err := NewTripRepository(db, time.Second).FindActiveTrips(context.Background())

	assert.EqualError(t, err, "query active trips: timeout")
}
