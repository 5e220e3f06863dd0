package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/devxpawan/smart-spend-sub002/internal/errors"
	"github.com/devxpawan/smart-spend-sub002/internal/logger"
	"github.com/devxpawan/smart-spend-sub002/internal/models"
	"github.com/devxpawan/smart-spend-sub002/internal/recurrence"
)

// recurringService materializes due occurrences of recurring transactions
// and advances or terminates their schedules.
type recurringService struct {
	db            *gorm.DB
	notifications NotificationServicer
	log           *zap.SugaredLogger
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(db *gorm.DB, notifications NotificationServicer) RecurringServicer {
	return &recurringService{
		db:            db,
		notifications: notifications,
		log:           logger.Named("recurring"),
	}
}

// ProcessDue handles every recurring transaction due on or before today.
// Each record advances by exactly one interval per run; records that are
// still overdue afterwards are picked up again by the next run. A failing
// record is reported to its owner and skipped, never aborting the batch.
func (s *recurringService) ProcessDue(ctx context.Context, today time.Time) (RunReport, error) {
	today = recurrence.Midnight(today)

	var due []models.Transaction
	err := s.db.WithContext(ctx).
		Where("is_recurring = ? AND next_occurrence <= ?", true, today).
		Where("end_date IS NULL OR end_date >= ?", today).
		Find(&due).Error
	if err != nil {
		return RunReport{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := RunReport{Scanned: len(due)}
	for i := range due {
		if ctx.Err() != nil {
			s.log.Warnw("run cancelled, leaving remaining records for the next run",
				"remaining", len(due)-i)
			break
		}

		record := &due[i]
		if err := s.processOne(ctx, record, today); err != nil {
			report.Failed++
			s.log.Errorw("failed to process recurring transaction",
				"transaction_id", record.ID,
				"user_id", record.UserID,
				"error", err,
			)
			s.reportFailure(record)
			continue
		}
		report.Processed++
	}

	s.log.Infow("recurring transaction run complete",
		"scanned", report.Scanned,
		"processed", report.Processed,
		"failed", report.Failed,
	)
	return report, nil
}

// processOne materializes today's occurrence and advances the source
// record in one database transaction, then notifies the owner. The
// notification is best-effort: once the financial write commits it
// stands regardless of what the sink does.
func (s *recurringService) processOne(ctx context.Context, record *models.Transaction, today time.Time) error {
	schedule, err := record.Schedule()
	if err != nil {
		// Malformed recurrence state on this record only.
		return apperrors.Wrap(apperrors.ErrInvalidInterval, err)
	}

	occurrence := record.Materialize(today)
	advanced, terminated := schedule.Advance(today)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(occurrence).Error; err != nil {
			return err
		}
		if terminated {
			record.Terminate()
		} else {
			record.SetSchedule(advanced)
		}
		return tx.Save(record).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	title := "Recurring expense added"
	if record.Kind == models.TransactionKindIncome {
		title = "Recurring income added"
	}
	message := fmt.Sprintf("%s of %s was added for %s.",
		occurrence.Description, formatAmount(occurrence.Amount), today.Format("Jan 2, 2006"))
	if terminated {
		message += " This was the final occurrence."
	}

	if _, nerr := s.notifications.NotifyRef(
		record.UserID, title, message, models.SeveritySuccess,
		"transaction", occurrence.ID,
	); nerr != nil {
		s.log.Warnw("failed to notify materialized occurrence",
			"transaction_id", occurrence.ID,
			"user_id", record.UserID,
			"error", nerr,
		)
	}

	return nil
}

// reportFailure tells the owner that one recurrence was skipped.
// Failures here are only logged; there is nothing further to unwind.
func (s *recurringService) reportFailure(record *models.Transaction) {
	message := fmt.Sprintf("Your recurring transaction %q could not be processed and was skipped. It will be retried on the next run.",
		record.Description)
	if _, err := s.notifications.NotifyRef(
		record.UserID,
		"Recurring transaction failed",
		message,
		models.SeverityError,
		"transaction", record.ID,
	); err != nil {
		s.log.Warnw("failed to deliver failure notification",
			"transaction_id", record.ID,
			"user_id", record.UserID,
			"error", err,
		)
	}
}
