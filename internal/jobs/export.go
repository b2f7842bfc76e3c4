package jobs

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"park-with-ease/internal/mail"
	"park-with-ease/internal/model"

	"go.uber.org/zap"
)

const ExportSubject = "Your Parking History Export is Ready!"

var exportHeader = []string{"ID", "Lot", "Spot", "Start", "End", "Cost"}

type ExportStore interface {
	GetUser(ctx context.Context, userID int) (*model.User, error)
	UserReservations(ctx context.Context, userID int) ([]model.Reservation, error)
}

type Exporter struct {
	Store   ExportStore
	Mailer  mail.Mailer
	Logger  *zap.Logger
	Dir     string
	BaseURL string
}

// ExportFilename is the file name produced for one export job.
func ExportFilename(userID int, jobID string) string {
	return fmt.Sprintf("user_%d_%s.csv", userID, jobID)
}

func exportRecord(r model.Reservation) []string {
	rec := []string{strconv.Itoa(r.ID), r.LotName, "", r.ParkingTimestamp.UTC().Format(time.RFC3339), "", ""}
	if r.SpotID.Valid {
		rec[2] = strconv.FormatInt(r.SpotID.Int64, 10)
	}
	if r.LeavingTimestamp.Valid {
		rec[4] = r.LeavingTimestamp.Time.UTC().Format(time.RFC3339)
	}
	if r.TotalCost.Valid {
		rec[5] = strconv.FormatFloat(r.TotalCost.Float64, 'f', 2, 64)
	}
	return rec
}

func (e *Exporter) writeCSV(name string, rows []model.Reservation) (err error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(filepath.Join(e.Dir, name))
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close export file: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(exportRecord(r)); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Run 匯出使用者所有預約並寄出下載連結，回傳檔名。
// 寄信失敗不影響結果，檔案仍可下載。
func (e *Exporter) Run(ctx context.Context, jobID string, userID int) (string, error) {
	user, err := e.Store.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	rows, err := e.Store.UserReservations(ctx, userID)
	if err != nil {
		return "", err
	}

	name := ExportFilename(userID, jobID)
	if err := e.writeCSV(name, rows); err != nil {
		return "", err
	}

	link := strings.TrimRight(e.BaseURL, "/") + "/exports/" + name
	body := fmt.Sprintf("Hi %s,\n\nYour parking history export is ready.\nDownload it here: %s", user.Username, link)
	if err := e.Mailer.Send(ctx, user.Email, ExportSubject, body); err != nil {
		e.Logger.Warn("export mail not sent", zap.Int("user_id", userID), zap.String("file", name), zap.Error(err))
	}
	e.Logger.Info("export written", zap.Int("user_id", userID), zap.String("file", name), zap.Int("rows", len(rows)))
	return name, nil
}
