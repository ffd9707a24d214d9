// Package worker runs the auto-approval sweep: drivers stuck in
// under_review past a timeout are force-approved on a schedule. This is a
// safety net, not a replacement for admin review.
package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"vezoh_backend/internal/models"
)

// ApprovalStore is the slice of persistence the sweep needs.
type ApprovalStore interface {
	// DueForApproval returns drivers under review whose last update is at
	// or before cutoff.
	DueForApproval(cutoff time.Time) ([]models.Driver, error)
	// ApproveIfUnderReview flips one driver to approved only if still
	// under review at write time, so a concurrent admin rejection is
	// never resurrected. Returns false when the conditional write
	// matched no row.
	ApproveIfUnderReview(driverID uint) (bool, error)
}

// GormStore implements ApprovalStore on the shared database handle.
type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) DueForApproval(cutoff time.Time) ([]models.Driver, error) {
	var drivers []models.Driver
	err := s.DB.
		Where("verification_status = ?", models.VerificationUnderReview).
		Where("updated_at <= ?", cutoff).
		Find(&drivers).Error
	return drivers, err
}

func (s *GormStore) ApproveIfUnderReview(driverID uint) (bool, error) {
	res := s.DB.Model(&models.Driver{}).
		Where("id = ? AND verification_status = ?", driverID, models.VerificationUnderReview).
		Update("verification_status", models.VerificationApproved)
	return res.RowsAffected > 0, res.Error
}

// AutoApprover sweeps on a fixed interval until its context is cancelled.
type AutoApprover struct {
	Store ApprovalStore
	// Interval between sweeps (default hourly).
	Interval time.Duration
	// Threshold is how long a driver may sit under review before the
	// sweep approves them (default 24h).
	Threshold time.Duration
}

func NewAutoApprover(store ApprovalStore, interval, threshold time.Duration) *AutoApprover {
	if interval <= 0 {
		interval = time.Hour
	}
	if threshold <= 0 {
		threshold = 24 * time.Hour
	}
	return &AutoApprover{Store: store, Interval: interval, Threshold: threshold}
}

// Run blocks until ctx is cancelled. Callers start it in a goroutine from
// the composition root.
func (a *AutoApprover) Run(ctx context.Context) {
	logrus.WithFields(logrus.Fields{
		"interval":  a.Interval,
		"threshold": a.Threshold,
	}).Info("Auto-approval sweep started")

	ticker := time.NewTicker(a.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Auto-approval sweep stopped")
			return
		case <-ticker.C:
			a.SweepOnce(time.Now())
		}
	}
}

// SweepOnce approves every driver due at now. Failures on individual
// drivers are logged and skipped; one bad row never aborts the sweep.
// Returns how many drivers were approved.
func (a *AutoApprover) SweepOnce(now time.Time) int {
	cutoff := now.Add(-a.Threshold)
	drivers, err := a.Store.DueForApproval(cutoff)
	if err != nil {
		logrus.WithError(err).Error("Auto-approval sweep: query failed")
		return 0
	}

	approved := 0
	for _, d := range drivers {
		ok, err := a.Store.ApproveIfUnderReview(d.ID)
		if err != nil {
			logrus.WithError(err).WithField("driver_id", d.ID).Error("Auto-approval sweep: update failed")
			continue
		}
		if !ok {
			// Status changed between read and write (e.g. admin
			// rejection); the conditional update lost the race on
			// purpose.
			continue
		}
		approved++
		logrus.WithField("driver_id", d.ID).Info("Driver auto-approved after review timeout")
	}

	if approved > 0 {
		logrus.WithField("approved", approved).Info("Auto-approval sweep finished")
	}
	return approved
}
