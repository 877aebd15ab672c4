package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Jazlogic/Share-Musician-sub000/internal/apperr"
	"github.com/Jazlogic/Share-Musician-sub000/models"
)

// Offer (Предложение музыканта по заявке).
type Offer struct {
	ID         int             `db:"id" json:"id"`
	RequestID  int             `db:"request_id" json:"requestId"`
	MusicianID int             `db:"musician_id" json:"musicianId"`
	Price      decimal.Decimal `db:"price" json:"price"`
	Message    string          `db:"message" json:"message"`
	Status     string          `db:"status" json:"status"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`
}

// OfferWithMusician предложение вместе с именем музыканта.
type OfferWithMusician struct {
	Offer
	MusicianName string `db:"musician_name" json:"musicianName"`
}

type CreateOfferParams struct {
	RequestID  int
	MusicianID int
	Price      decimal.Decimal
	Message    string
}

// запись для join-чтения предложения вместе с владельцем заявки
type offerWithRequest struct {
	ID            int    `db:"id"`
	RequestID     int    `db:"request_id"`
	MusicianID    int    `db:"musician_id"`
	Status        string `db:"status"`
	ClientID      int    `db:"client_id"`
	RequestStatus string `db:"request_status"`
}

// uniqueViolation код ошибки PostgreSQL для нарушения уникального индекса.
const uniqueViolation = "23505"

// CreateOffer создает предложение по открытой заявке. Заявка блокируется
// на время транзакции, чтобы параллельный accept не увел ее из-под вставки.
func (s *Storage) CreateOffer(ctx context.Context, p CreateOfferParams) (*Offer, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal("could not create offer", err)
	}
	defer tx.Rollback()

	var request struct {
		ClientID int    `db:"client_id"`
		Status   string `db:"status"`
	}
	err = tx.GetContext(ctx, &request,
		`SELECT client_id, status FROM request WHERE id = $1 FOR UPDATE`, p.RequestID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("request not found")
	}
	if err != nil {
		return nil, apperr.Internal("could not create offer", err)
	}
	if request.Status != models.RequestStatusCreated {
		return nil, apperr.NotFound("request is not available for offers")
	}
	if request.ClientID == p.MusicianID {
		return nil, apperr.Validation("cannot make an offer for your own request")
	}

	var exists bool
	err = tx.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM offer WHERE request_id = $1 AND musician_id = $2)`,
		p.RequestID, p.MusicianID)
	if err != nil {
		return nil, apperr.Internal("could not create offer", err)
	}
	if exists {
		return nil, apperr.Conflict("offer already exists for this request")
	}

	offer := &Offer{}
	err = tx.GetContext(ctx, offer, `
        INSERT INTO offer (request_id, musician_id, price, message, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING *`,
		p.RequestID, p.MusicianID, p.Price, p.Message, models.OfferStatusSent)
	if err != nil {
		// Уникальный индекс (request_id, musician_id) страхует проверку выше.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, apperr.Conflict("offer already exists for this request")
		}
		return nil, apperr.Internal("could not create offer", err)
	}

	err = insertNotification(ctx, tx, request.ClientID,
		models.NotificationOfferReceived, "A musician sent an offer for your request")
	if err != nil {
		return nil, apperr.Internal("could not create offer", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("could not create offer", err)
	}
	return offer, nil
}

// GetOffer возвращает предложение с учетом видимости роли: музыкант видит
// только свои предложения, клиент и лидер — предложения по своим заявкам,
// админ — все. Отфильтрованное видимостью неотличимо от отсутствующего.
func (s *Storage) GetOffer(ctx context.Context, offerID, callerID int, role string) (*OfferWithMusician, error) {
	var query string
	args := []interface{}{offerID}

	switch role {
	case models.RoleAdmin:
		query = `
            SELECT o.*, u.name AS musician_name
            FROM offer o
            JOIN users u ON u.id = o.musician_id
            WHERE o.id = $1`
	case models.RoleMusician:
		query = `
            SELECT o.*, u.name AS musician_name
            FROM offer o
            JOIN users u ON u.id = o.musician_id
            WHERE o.id = $1 AND o.musician_id = $2`
		args = append(args, callerID)
	case models.RoleClient, models.RoleLeader:
		query = `
            SELECT o.*, u.name AS musician_name
            FROM offer o
            JOIN users u ON u.id = o.musician_id
            JOIN request r ON r.id = o.request_id
            WHERE o.id = $1 AND r.client_id = $2`
		args = append(args, callerID)
	default:
		return nil, apperr.Forbidden("role is not allowed to view offers")
	}

	offer := &OfferWithMusician{}
	err := s.db.GetContext(ctx, offer, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("offer not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to get offer", err)
	}
	return offer, nil
}

// ListOffersForRequest возвращает предложения по заявке с той же
// ролевой видимостью, что и GetOffer. Заявка должна существовать, а
// клиент или лидер — владеть ею.
func (s *Storage) ListOffersForRequest(ctx context.Context, requestID, callerID int, role string) ([]Offer, error) {
	switch role {
	case models.RoleAdmin, models.RoleMusician, models.RoleClient, models.RoleLeader:
	default:
		return nil, apperr.Forbidden("role is not allowed to view offers")
	}

	var clientID int
	err := s.db.GetContext(ctx, &clientID,
		`SELECT client_id FROM request WHERE id = $1`, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("request not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to list offers", err)
	}

	if (role == models.RoleClient || role == models.RoleLeader) && clientID != callerID {
		return nil, apperr.Forbidden("only the request owner can view its offers")
	}

	offers := []Offer{}
	switch role {
	case models.RoleMusician:
		query := `
            SELECT * FROM offer
            WHERE request_id = $1 AND musician_id = $2
            ORDER BY created_at DESC`
		err = s.db.SelectContext(ctx, &offers, query, requestID, callerID)
	default:
		query := `SELECT * FROM offer WHERE request_id = $1 ORDER BY created_at DESC`
		err = s.db.SelectContext(ctx, &offers, query, requestID)
	}
	if err != nil {
		return nil, apperr.Internal("failed to list offers", err)
	}
	return offers, nil
}

// AcceptOffer принимает предложение: заявка переводится в ACCEPTED с
// назначением музыканта, остальные SENT-предложения отклоняются. Переход
// заявки выполняется условным UPDATE по статусу CREATED, так что из двух
// одновременных accept выигрывает ровно один, второй получает Conflict.
func (s *Storage) AcceptOffer(ctx context.Context, offerID, callerID int) (*Offer, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal("could not accept offer", err)
	}
	defer tx.Rollback()

	row, err := getOfferWithRequest(ctx, tx, offerID)
	if err != nil {
		return nil, err
	}
	if row.ClientID != callerID {
		return nil, apperr.Forbidden("only the request owner can accept an offer")
	}
	if row.Status != models.OfferStatusSent {
		return nil, apperr.Validation("offer cannot be accepted")
	}

	res, err := tx.ExecContext(ctx, `
        UPDATE request
        SET status = $1, musician_id = $2, updated_at = NOW()
        WHERE id = $3 AND status = $4`,
		models.RequestStatusAccepted, row.MusicianID, row.RequestID, models.RequestStatusCreated)
	if err != nil {
		return nil, apperr.Internal("could not accept offer", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, apperr.Internal("could not accept offer", err)
	}
	if affected == 0 {
		return nil, apperr.Conflict("request is no longer available")
	}

	offer := &Offer{}
	err = tx.GetContext(ctx, offer, `
        UPDATE offer
        SET status = $1, updated_at = NOW()
        WHERE id = $2 AND status = $3
        RETURNING *`,
		models.OfferStatusAccepted, offerID, models.OfferStatusSent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Conflict("offer cannot be accepted")
	}
	if err != nil {
		return nil, apperr.Internal("could not accept offer", err)
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE offer
        SET status = $1, updated_at = NOW()
        WHERE request_id = $2 AND id <> $3 AND status = $4`,
		models.OfferStatusRejected, row.RequestID, offerID, models.OfferStatusSent)
	if err != nil {
		return nil, apperr.Internal("could not accept offer", err)
	}

	err = insertNotification(ctx, tx, row.MusicianID,
		models.NotificationOfferAccepted, "Your offer has been accepted")
	if err != nil {
		return nil, apperr.Internal("could not accept offer", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("could not accept offer", err)
	}
	return offer, nil
}

// RejectOffer отклоняет одно предложение. Заявку и соседние предложения
// не трогает.
func (s *Storage) RejectOffer(ctx context.Context, offerID, callerID int) (*Offer, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal("could not reject offer", err)
	}
	defer tx.Rollback()

	row, err := getOfferWithRequest(ctx, tx, offerID)
	if err != nil {
		return nil, err
	}
	if row.ClientID != callerID {
		return nil, apperr.Forbidden("only the request owner can reject an offer")
	}
	if row.Status != models.OfferStatusSent {
		return nil, apperr.Validation("offer cannot be rejected")
	}
	if row.RequestStatus != models.RequestStatusCreated {
		return nil, apperr.Validation("request is no longer available")
	}

	offer := &Offer{}
	err = tx.GetContext(ctx, offer, `
        UPDATE offer
        SET status = $1, updated_at = NOW()
        WHERE id = $2 AND status = $3
        RETURNING *`,
		models.OfferStatusRejected, offerID, models.OfferStatusSent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Validation("offer cannot be rejected")
	}
	if err != nil {
		return nil, apperr.Internal("could not reject offer", err)
	}

	err = insertNotification(ctx, tx, row.MusicianID,
		models.NotificationOfferRejected, "Your offer has been rejected")
	if err != nil {
		return nil, apperr.Internal("could not reject offer", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("could not reject offer", err)
	}
	return offer, nil
}

func getOfferWithRequest(ctx context.Context, tx *sqlx.Tx, offerID int) (*offerWithRequest, error) {
	row := &offerWithRequest{}
	err := tx.GetContext(ctx, row, `
        SELECT o.id, o.request_id, o.musician_id, o.status,
               r.client_id, r.status AS request_status
        FROM offer o
        JOIN request r ON r.id = o.request_id
        WHERE o.id = $1`, offerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("offer not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to get offer", err)
	}
	return row, nil
}
