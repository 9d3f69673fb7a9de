// Package scheduler runs the periodic reservation housekeeping jobs.
package scheduler

import (
	"time"

	"cityguide/database"
	"cityguide/models"
	"cityguide/utils"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Start schedules the housekeeping run on spec and starts the cron loop
func Start(spec string) (*cron.Cron, error) {
	log := utils.Component("scheduler")

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		Run(database.Database.Db, time.Now().UTC())
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Info().Str("spec", spec).Msg("reservation scheduler started")
	return c, nil
}

// Run executes every housekeeping job once
func Run(db *gorm.DB, at time.Time) {
	log := utils.Component("scheduler")

	completed, err := CompletePastReservations(db, at)
	if err != nil {
		log.Error().Err(err).Msg("completing past reservations failed")
	}
	cancelled, err := CancelStalePendingReservations(db, at)
	if err != nil {
		log.Error().Err(err).Msg("cancelling stale reservations failed")
	}

	log.Info().Int("completed", completed).Int("cancelled", cancelled).Msg("reservation housekeeping done")
}

// CompletePastReservations marks confirmed reservations dated before today as completed
func CompletePastReservations(db *gorm.DB, at time.Time) (int, error) {
	return transition(db, at, models.ReservationConfirmed, models.ReservationCompleted)
}

// CancelStalePendingReservations cancels pending reservations whose date has passed
func CancelStalePendingReservations(db *gorm.DB, at time.Time) (int, error) {
	return transition(db, at, models.ReservationPending, models.ReservationCancelled)
}

func transition(db *gorm.DB, at time.Time, from, to string) (int, error) {
	today := now.With(at.UTC()).BeginningOfDay()

	var reservations []models.Reservation
	if err := db.Where("status = ? AND date < ?", from, today).Find(&reservations).Error; err != nil {
		return 0, err
	}
	if len(reservations) == 0 {
		return 0, nil
	}

	ids := make([]uint, 0, len(reservations))
	for _, r := range reservations {
		ids = append(ids, r.ID)
	}

	if err := db.Model(&models.Reservation{}).
		Where("id IN ? AND status = ?", ids, from).
		Update("status", to).Error; err != nil {
		return 0, err
	}

	for _, r := range reservations {
		utils.PublishAsync(utils.EventReservationStatusChanged, map[string]interface{}{
			"id":        r.ID,
			"reference": r.Reference,
			"user_id":   r.UserID,
			"place_id":  r.PlaceID,
			"status":    to,
			"previous":  from,
		})
	}
	return len(reservations), nil
}
