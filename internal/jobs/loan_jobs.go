package jobs

import (
	"context"

	"muontra/internal/logger"
	"muontra/internal/utils"
)

// MarkOverdueLoans moves borrowed tickets past their expected return date to overdue
func (jr *JobRunner) MarkOverdueLoans() {
	jr.runWithRecovery("MarkOverdueLoans", func() {
		ctx := context.Background()

		count, err := jr.loanSvc.MarkOverdue(ctx)
		if err != nil {
			logger.Error("Failed to mark overdue loans", "error", err)
			return
		}
		logger.Info("Marked loan tickets as overdue", "count", count)
	})
}

// SendOverdueReminders emails the borrower of every overdue ticket
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		if jr.emailSvc == nil {
			logger.Info("Email is not configured, skipping overdue reminders")
			return
		}
		ctx := context.Background()

		reminders, err := jr.loanRepo.ListOverdueReminders(ctx)
		if err != nil {
			logger.Error("Failed to list overdue loans", "error", err)
			return
		}

		now := jr.now()
		sent := 0
		for _, reminder := range reminders {
			if reminder.BorrowerEmail == "" {
				logger.Warn("Borrower has no email, skipping reminder", "ticketID", reminder.TicketID)
				continue
			}
			reminder.DaysOverdue = utils.DaysOverdue(reminder.ExpectedReturnDate.Time, now)
			if err := jr.emailSvc.SendOverdueReminder(ctx, reminder); err != nil {
				logger.Error("Failed to send overdue reminder", "ticketID", reminder.TicketID, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Sent overdue reminders", "sent", sent, "total", len(reminders))
	})
}
