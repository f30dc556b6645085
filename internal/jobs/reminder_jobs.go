package jobs

import (
	"context"
	"time"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/logger"
)

// reminderTimeout bounds one run of SendShareReminders.
const reminderTimeout = 5 * time.Minute

// SendShareReminders emails every user holding unpaid shares in a locked
// event one message listing those shares.
func (jr *JobRunner) SendShareReminders() {
	jr.runWithRecovery("SendShareReminders", func() {
		ctx, cancel := context.WithTimeout(context.Background(), reminderTimeout)
		defer cancel()

		sent, err := jr.sendShareReminders(ctx)
		if err != nil {
			logger.Error("Failed to send share reminders", "error", err)
			return
		}
		logger.Info("Share reminders sent", "count", sent)
	})
}

func (jr *JobRunner) sendShareReminders(ctx context.Context) (int, error) {
	shares, err := jr.expenses.ListUnpaidSharesInLockedEvents(ctx)
	if err != nil {
		return 0, err
	}
	if len(shares) == 0 {
		return 0, nil
	}

	byUser := make(map[string][]domain.UnpaidShare)
	var userIDs []string
	for _, s := range shares {
		if _, ok := byUser[s.UserID]; !ok {
			userIDs = append(userIDs, s.UserID)
		}
		byUser[s.UserID] = append(byUser[s.UserID], s)
	}

	users, err := jr.resolver.Users(ctx, userIDs)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, u := range users {
		pending := byUser[u.ID]
		if len(pending) == 0 || u.Email == "" {
			continue
		}
		if err := jr.email.SendShareReminder(ctx, u, pending); err != nil {
			logger.Error("Failed to send share reminder",
				"user_id", u.ID,
				"shares", len(pending),
				"error", err)
			continue
		}
		sent++
		logger.Debug("Sent share reminder", "user_id", u.ID, "shares", len(pending))
	}
	return sent, nil
}
