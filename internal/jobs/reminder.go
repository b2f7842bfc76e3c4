// Package jobs 實作 worker 執行的背景工作：提醒信、CSV 匯出、排程。
package jobs

import (
	"context"
	"fmt"
	"time"

	"park-with-ease/internal/jobstore"
	"park-with-ease/internal/mail"

	"go.uber.org/zap"
)

const (
	ReminderSubject = "Reminder: Need to Park Today?"
	ReminderWindow  = 7 * 24 * time.Hour
)

var timeNow = time.Now

type ReminderStore interface {
	ReminderCandidates(ctx context.Context, cutoff time.Time) ([]jobstore.ReminderCandidate, error)
}

type Reminder struct {
	Store  ReminderStore
	Mailer mail.Mailer
	Logger *zap.Logger
}

func reminderBody(username string) string {
	return fmt.Sprintf("Hi %s,\n\nWe haven't seen you parking lately.\n"+
		"Book a parking spot anytime from your Park With Ease dashboard!", username)
}

// Run 寄信給一週內沒有停車紀錄的使用者，回傳成功寄出的數量。
// 單一收件者失敗只記錄 log 不中斷。
func (r *Reminder) Run(ctx context.Context) (int, error) {
	cutoff := timeNow().UTC().Add(-ReminderWindow)
	users, err := r.Store.ReminderCandidates(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := r.Mailer.Send(ctx, u.Email, ReminderSubject, reminderBody(u.Username)); err != nil {
			r.Logger.Warn("reminder not sent",
				zap.Int("user_id", u.UserID),
				zap.String("email", u.Email),
				zap.Error(err),
			)
			continue
		}
		sent++
	}
	r.Logger.Info("reminders sent", zap.Int("sent", sent), zap.Int("candidates", len(users)))
	return sent, nil
}
