package dispatcher

import (
	"github.com/blockedby/newsletter-light/internal/logger"
	"github.com/blockedby/newsletter-light/internal/models"
)

// DeliveryStatus is the outcome of one delivery attempt.
type DeliveryStatus string

const (
	StatusSent   DeliveryStatus = "SENT"
	StatusFailed DeliveryStatus = "FAILED"
)

// Delivery records what happened to one recipient.
type Delivery struct {
	Email  string         `json:"email"`
	UserID int64          `json:"user_id,omitempty"`
	Status DeliveryStatus `json:"status"`
	Error  string         `json:"error,omitempty"`
}

// Report summarizes one publish notification run.
type Report struct {
	ArticleID  int64      `json:"article_id"`
	Attempted  int        `json:"attempted"`
	Sent       int        `json:"sent"`
	Failed     int        `json:"failed"`
	Deliveries []Delivery `json:"deliveries"`
	// Warnings are user-facing messages for failed deliveries.
	Warnings []string `json:"warnings,omitempty"`
}

// DeliveryTracker accumulates delivery outcomes into a Report.
type DeliveryTracker struct {
	report Report
	log    *logger.Logger
}

// NewDeliveryTracker creates a tracker for the given article.
func NewDeliveryTracker(articleID int64, log *logger.Logger) *DeliveryTracker {
	return &DeliveryTracker{
		report: Report{ArticleID: articleID, Deliveries: []Delivery{}},
		log:    log,
	}
}

// TrackSent records a successful delivery.
func (t *DeliveryTracker) TrackSent(ref models.RecipientRef) {
	t.report.Attempted++
	t.report.Sent++
	t.report.Deliveries = append(t.report.Deliveries, Delivery{
		Email:  ref.Email,
		UserID: ref.UserID,
		Status: StatusSent,
	})
}

// TrackFailure records a failed delivery and the warning shown for it.
func (t *DeliveryTracker) TrackFailure(ref models.RecipientRef, err error) {
	t.report.Attempted++
	t.report.Failed++
	t.report.Deliveries = append(t.report.Deliveries, Delivery{
		Email:  ref.Email,
		UserID: ref.UserID,
		Status: StatusFailed,
		Error:  err.Error(),
	})
	t.report.Warnings = append(t.report.Warnings, WarningMailNotSent+" ("+ref.Email+")")

	t.log.Warn().
		Err(err).
		Str("to", ref.Email).
		Int64("article_id", t.report.ArticleID).
		Msg("newsletter delivery failed")
}

// Report returns the accumulated report.
func (t *DeliveryTracker) Report() Report {
	return t.report
}
