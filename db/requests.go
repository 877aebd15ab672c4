package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"github.com/Jazlogic/Share-Musician-sub000/internal/apperr"
	"github.com/Jazlogic/Share-Musician-sub000/internal/pricing"
	"github.com/Jazlogic/Share-Musician-sub000/models"
)

// Request (Заявка на музыкальную услугу).
type Request struct {
	ID          int             `db:"id" json:"id"`
	ClientID    int             `db:"client_id" json:"clientId"`
	MusicianID  *int            `db:"musician_id" json:"musicianId"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description"`
	EventTypeID int             `db:"event_type_id" json:"eventTypeId"`
	EventDate   time.Time       `db:"event_date" json:"eventDate"`
	StartTime   string          `db:"start_time" json:"startTime"`
	EndTime     string          `db:"end_time" json:"endTime"`
	Location    types.JSONText  `db:"location" json:"location"`
	TotalPrice  decimal.Decimal `db:"total_price" json:"totalPrice"`
	Status      string          `db:"status" json:"status"`
	IsPublic    bool            `db:"is_public" json:"isPublic"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// CreateRequestParams входные данные создания заявки. Category и
// Instrument — человекочитаемые имена из справочников.
type CreateRequestParams struct {
	ClientID    int
	Title       string
	Description string
	Category    string
	Instrument  string
	EventDate   string
	StartTime   string
	EndTime     string
	Location    types.JSONText
	IsPublic    bool
}

// CreateRequest создает заявку одной транзакцией: резолвит справочники по
// точному имени, валидирует поля, считает стоимость и пишет заявку,
// связки с инструментами и уведомление создателю.
func (s *Storage) CreateRequest(ctx context.Context, p CreateRequestParams) (*Request, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal("could not create request", err)
	}
	defer tx.Rollback()

	var eventType EventType
	err = tx.GetContext(ctx, &eventType,
		`SELECT id, name, price_factor FROM event_types WHERE name = $1`, p.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("event type not found")
	}
	if err != nil {
		return nil, apperr.Internal("could not create request", err)
	}

	var instrument Instrument
	err = tx.GetContext(ctx, &instrument,
		`SELECT id, name, price_factor FROM instruments WHERE name = $1`, p.Instrument)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("instrument not found")
	}
	if err != nil {
		return nil, apperr.Internal("could not create request", err)
	}
	instrumentIDs := []int{instrument.ID}

	if p.ClientID <= 0 || p.Title == "" || p.Description == "" ||
		p.EventDate == "" || p.StartTime == "" || p.EndTime == "" || len(p.Location) == 0 {
		return nil, apperr.Validation("missing required request fields")
	}

	totalPrice, err := pricing.Estimate(p.EventDate, p.StartTime, p.EndTime,
		decimal.NewFromFloat(instrument.PriceFactor),
		decimal.NewFromFloat(eventType.PriceFactor))
	if err != nil {
		return nil, err
	}

	request := &Request{}
	err = tx.GetContext(ctx, request, `
        INSERT INTO request
            (client_id, title, description, event_type_id, event_date,
             start_time, end_time, location, total_price, status, is_public)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING *`,
		p.ClientID, p.Title, p.Description, eventType.ID, p.EventDate,
		p.StartTime, p.EndTime, p.Location, totalPrice,
		models.RequestStatusCreated, p.IsPublic)
	if err != nil {
		return nil, apperr.Internal("could not create request", err)
	}

	for _, instrumentID := range instrumentIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO request_instruments (request_id, instrument_id) VALUES ($1, $2)`,
			request.ID, instrumentID)
		if err != nil {
			return nil, apperr.Internal("could not create request", err)
		}
	}

	err = insertNotification(ctx, tx, p.ClientID,
		models.NotificationRequestCreated, "Your request \""+p.Title+"\" has been published")
	if err != nil {
		return nil, apperr.Internal("could not create request", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("could not create request", err)
	}
	return request, nil
}

// ListCreatedRequests возвращает открытые заявки: лидер видит только свои,
// музыкант — все, остальные роли — пустой список.
func (s *Storage) ListCreatedRequests(ctx context.Context, userID int, role string) ([]Request, error) {
	requests := []Request{}

	switch role {
	case models.RoleLeader:
		query := `SELECT * FROM request WHERE status = $1 AND client_id = $2 ORDER BY created_at DESC`
		if err := s.db.SelectContext(ctx, &requests, query, models.RequestStatusCreated, userID); err != nil {
			return nil, apperr.Internal("failed to list requests", err)
		}
	case models.RoleMusician:
		query := `SELECT * FROM request WHERE status = $1 ORDER BY created_at DESC`
		if err := s.db.SelectContext(ctx, &requests, query, models.RequestStatusCreated); err != nil {
			return nil, apperr.Internal("failed to list requests", err)
		}
	}

	return requests, nil
}

// GetRequest возвращает заявку по id.
func (s *Storage) GetRequest(ctx context.Context, id int) (*Request, error) {
	request := &Request{}
	err := s.db.GetContext(ctx, request, `SELECT * FROM request WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("request not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to get request", err)
	}
	return request, nil
}
