package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Jazlogic/Share-Musician-sub000/internal/apperr"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// Регистрация и аутентификация пользователей живут во внешнем сервисе,
// таблица users нужна здесь для связей и имен музыкантов.

// EventType (Тип события) — справочник с ценовым коэффициентом.
type EventType struct {
	ID          int     `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	PriceFactor float64 `db:"price_factor" json:"-"`
}

// Instrument (Инструмент) — справочник с ценовым коэффициентом.
type Instrument struct {
	ID          int     `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	PriceFactor float64 `db:"price_factor" json:"-"`
}

// Notification (Уведомление).
type Notification struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"userId"`
	Type      string    `db:"type" json:"type"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"isRead"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ListEventTypes возвращает справочник типов событий для публичного списка.
func (s *Storage) ListEventTypes(ctx context.Context) ([]EventType, error) {
	types := []EventType{}
	query := `SELECT id, name, price_factor FROM event_types ORDER BY name ASC`
	if err := s.db.SelectContext(ctx, &types, query); err != nil {
		return nil, apperr.Internal("failed to list event types", err)
	}
	return types, nil
}

// ListNotifications возвращает уведомления пользователя, новые первыми.
func (s *Storage) ListNotifications(ctx context.Context, userID int) ([]Notification, error) {
	notifications := []Notification{}
	query := `
        SELECT id, user_id, type, message, is_read, created_at
        FROM notifications
        WHERE user_id = $1
        ORDER BY created_at DESC`
	if err := s.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, apperr.Internal("failed to list notifications", err)
	}
	return notifications, nil
}

// MarkNotificationRead помечает уведомление прочитанным. Чужое уведомление
// выглядит как отсутствующее.
func (s *Storage) MarkNotificationRead(ctx context.Context, id, userID int) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	res, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return apperr.Internal("failed to update notification", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal("failed to update notification", err)
	}
	if affected == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// insertNotification пишет уведомление в рамках открытой транзакции.
func insertNotification(ctx context.Context, tx *sqlx.Tx, userID int, kind, message string) error {
	query := `INSERT INTO notifications (user_id, type, message) VALUES ($1, $2, $3)`
	_, err := tx.ExecContext(ctx, query, userID, kind, message)
	return err
}
