package worker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vezoh_backend/internal/models"
)

type fakeStore struct {
	due        []models.Driver
	dueErr     error
	cutoffSeen time.Time

	approveResults map[uint]bool
	approveErrs    map[uint]error
	approveCalls   []uint
}

func (f *fakeStore) DueForApproval(cutoff time.Time) ([]models.Driver, error) {
	f.cutoffSeen = cutoff
	return f.due, f.dueErr
}

func (f *fakeStore) ApproveIfUnderReview(driverID uint) (bool, error) {
	f.approveCalls = append(f.approveCalls, driverID)
	if err := f.approveErrs[driverID]; err != nil {
		return false, err
	}
	return f.approveResults[driverID], nil
}

func driverWithID(id uint) models.Driver {
	var d models.Driver
	d.ID = id
	return d
}

func TestSweepOnceApprovesDueDrivers(t *testing.T) {
	store := &fakeStore{
		due:            []models.Driver{driverWithID(1), driverWithID(2)},
		approveResults: map[uint]bool{1: true, 2: true},
	}
	a := NewAutoApprover(store, time.Hour, 24*time.Hour)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	approved := a.SweepOnce(now)

	assert.Equal(t, 2, approved)
	assert.Equal(t, []uint{1, 2}, store.approveCalls)
	assert.Equal(t, now.Add(-24*time.Hour), store.cutoffSeen)
}

func TestSweepOnceContinuesPastFailures(t *testing.T) {
	store := &fakeStore{
		due:            []models.Driver{driverWithID(1), driverWithID(2), driverWithID(3)},
		approveResults: map[uint]bool{1: true, 3: true},
		approveErrs:    map[uint]error{2: errors.New("deadlock")},
	}
	a := NewAutoApprover(store, time.Hour, 24*time.Hour)

	approved := a.SweepOnce(time.Now())

	// Driver 2 failed but 1 and 3 still went through.
	assert.Equal(t, 2, approved)
	assert.Equal(t, []uint{1, 2, 3}, store.approveCalls)
}

func TestSweepOnceSkipsLostRaces(t *testing.T) {
	// Driver 2 was rejected by an admin between the read and the
	// conditional write; the store reports no row matched.
	store := &fakeStore{
		due:            []models.Driver{driverWithID(1), driverWithID(2)},
		approveResults: map[uint]bool{1: true, 2: false},
	}
	a := NewAutoApprover(store, time.Hour, 24*time.Hour)

	assert.Equal(t, 1, a.SweepOnce(time.Now()))
}

func TestSweepOnceQueryFailure(t *testing.T) {
	store := &fakeStore{dueErr: errors.New("connection refused")}
	a := NewAutoApprover(store, time.Hour, 24*time.Hour)

	assert.Equal(t, 0, a.SweepOnce(time.Now()))
	assert.Empty(t, store.approveCalls)
}

func TestNewAutoApproverDefaults(t *testing.T) {
	a := NewAutoApprover(&fakeStore{}, 0, 0)
	assert.Equal(t, time.Hour, a.Interval)
	assert.Equal(t, 24*time.Hour, a.Threshold)
}
