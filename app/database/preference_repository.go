package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type preferenceRepository struct {
	db *DB
}

func NewPreferenceRepository(db *DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) GetPreferences(ctx context.Context, userID string) (*PreferenceRecord, error) {
	var record PreferenceRecord
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, preferences, revision, updated_at
		FROM user_preferences
		WHERE user_id = ?
	`, userID).Scan(&record.UserID, &record.Preferences, &record.Revision, &record.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	return &record, nil
}

func (r *preferenceRepository) InsertPreferences(ctx context.Context, userID, preferences string) (*PreferenceRecord, error) {
	record := &PreferenceRecord{
		UserID:      userID,
		Preferences: preferences,
		Revision:    1,
		UpdatedAt:   time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, preferences, revision, updated_at)
		VALUES (?, ?, ?, ?)
	`, record.UserID, record.Preferences, record.Revision, record.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert preferences: %w", err)
	}

	return record, nil
}

func (r *preferenceRepository) UpdatePreferences(ctx context.Context, userID, preferences string, revision int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE user_preferences
		SET preferences = ?, revision = revision + 1, updated_at = ?
		WHERE user_id = ? AND revision = ?
	`, preferences, time.Now().UTC(), userID, revision)
	if err != nil {
		return false, fmt.Errorf("failed to update preferences: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check update result: %w", err)
	}

	return affected == 1, nil
}

func (r *preferenceRepository) GetPreferenceCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM user_preferences").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get preference count: %w", err)
	}
	return count, nil
}
