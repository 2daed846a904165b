package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// RecordMeta carries the storage-level attributes of a user record that are
// not part of the serialized document.
type RecordMeta struct {
	Uid       string
	CreatedAt time.Time
}

// RecordRepo is the record store: one serialized UserRecord per user,
// addressed by email. Single writer per process, last write wins.
type RecordRepo interface {
	// Load returns the stored record, or ErrRecordNotFound. A document that
	// no longer parses is treated as absence: Load returns a fresh empty
	// record instead of an error.
	Load(ctx context.Context, email string) (UserRecord, error)
	// Save replaces the stored record. Fails with ErrRecordNotFound when the
	// user was never created.
	Save(ctx context.Context, email string, record UserRecord) error
	// Create stores the initial record for a new user. Fails with
	// ErrRecordExists when the email is already taken.
	Create(ctx context.Context, email string, uid string, record UserRecord) error
	Meta(ctx context.Context, email string) (RecordMeta, error)
}

type RecordRepoImpl struct {
	db *sql.DB
}

func NewRecordRepo(db *sql.DB) *RecordRepoImpl {
	return &RecordRepoImpl{db: db}
}

func (r *RecordRepoImpl) Load(ctx context.Context, email string) (UserRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT record FROM user_record WHERE email = ?", email)

	var doc string
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserRecord{}, ErrRecordNotFound
		}
		err := fmt.Errorf("could not query user record: %w", err)
		log.Error(err)
		return UserRecord{}, err
	}

	var record UserRecord
	if err := json.Unmarshal([]byte(doc), &record); err != nil {
		// Corrupted documents are recovered as an empty default rather than
		// surfaced, trading data loss for availability.
		log.Warnf("stored record for %s is corrupted, substituting an empty one: %v", email, err)
		return NewUserRecord("", ""), nil
	}
	if record.Months == nil {
		record.Months = map[MonthKey]MonthLedger{}
	}
	return record, nil
}

func (r *RecordRepoImpl) Save(ctx context.Context, email string, record UserRecord) error {
	doc, err := json.Marshal(record)
	if err != nil {
		err := fmt.Errorf("could not serialize user record: %w", err)
		log.Error(err)
		return err
	}

	result, err := r.db.ExecContext(ctx, "UPDATE user_record SET record = ? WHERE email = ?", string(doc), email)
	if err != nil {
		err := fmt.Errorf("could not update user record: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *RecordRepoImpl) Create(ctx context.Context, email string, uid string, record UserRecord) error {
	var exists bool
	row := r.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM user_record WHERE email = ?)", email)
	if err := row.Scan(&exists); err != nil {
		err := fmt.Errorf("could not check user record existence: %w", err)
		log.Error(err)
		return err
	}
	if exists {
		return ErrRecordExists
	}

	doc, err := json.Marshal(record)
	if err != nil {
		err := fmt.Errorf("could not serialize user record: %w", err)
		log.Error(err)
		return err
	}

	query := "INSERT INTO user_record (email, uid, record, created_at) VALUES (?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, email, uid, string(doc), time.Now().UTC().Format(time.RFC3339)); err != nil {
		err := fmt.Errorf("could not insert user record: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RecordRepoImpl) Meta(ctx context.Context, email string) (RecordMeta, error) {
	row := r.db.QueryRowContext(ctx, "SELECT uid, created_at FROM user_record WHERE email = ?", email)

	var meta RecordMeta
	var createdAt string
	if err := row.Scan(&meta.Uid, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RecordMeta{}, ErrRecordNotFound
		}
		err := fmt.Errorf("could not query user record meta: %w", err)
		log.Error(err)
		return RecordMeta{}, err
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		err := fmt.Errorf("could not parse record creation time: %w", err)
		log.Error(err)
		return RecordMeta{}, err
	}
	meta.CreatedAt = t
	return meta, nil
}
