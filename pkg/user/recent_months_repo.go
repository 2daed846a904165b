package user

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finbook/finbook/pkg/ledger"
	log "github.com/sirupsen/logrus"
)

type RecentMonthsRepo interface {
	// Add remembers the month for the user. A month already remembered keeps
	// its original opening time.
	Add(ctx context.Context, email string, month ledger.MonthKey, openedAt time.Time) error
	// List returns the remembered months, oldest first.
	List(ctx context.Context, email string) ([]ledger.MonthKey, error)
	// Trim drops the oldest remembered months beyond limit.
	Trim(ctx context.Context, email string, limit int) error
}

type RecentMonthsRepoImpl struct {
	db *sql.DB
}

func NewRecentMonthsRepo(db *sql.DB) *RecentMonthsRepoImpl {
	return &RecentMonthsRepoImpl{db: db}
}

func (r *RecentMonthsRepoImpl) Add(ctx context.Context, email string, month ledger.MonthKey, openedAt time.Time) error {
	query := "INSERT OR IGNORE INTO recent_month (email, month, opened_at) VALUES (?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, email, month.String(), openedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		err := fmt.Errorf("could not insert recent month: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RecentMonthsRepoImpl) List(ctx context.Context, email string) ([]ledger.MonthKey, error) {
	query := "SELECT month FROM recent_month WHERE email = ? ORDER BY opened_at, month"
	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		err := fmt.Errorf("could not query recent months: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var months []ledger.MonthKey
	for rows.Next() {
		var month string
		if err := rows.Scan(&month); err != nil {
			err := fmt.Errorf("could not scan recent month: %w", err)
			log.Error(err)
			return nil, err
		}
		months = append(months, ledger.MonthKey(month))
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return months, nil
}

func (r *RecentMonthsRepoImpl) Trim(ctx context.Context, email string, limit int) error {
	query := `DELETE FROM recent_month WHERE email = ? AND month NOT IN (
                  SELECT month FROM recent_month WHERE email = ?
                  ORDER BY opened_at DESC, month DESC LIMIT ?)`
	if _, err := r.db.ExecContext(ctx, query, email, email, limit); err != nil {
		err := fmt.Errorf("could not trim recent months: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
