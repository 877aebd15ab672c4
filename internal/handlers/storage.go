package handlers

import (
	"context"

	"github.com/Jazlogic/Share-Musician-sub000/db"
)

type StorageInterface interface {
	CreateRequest(ctx context.Context, p db.CreateRequestParams) (*db.Request, error)
	ListCreatedRequests(ctx context.Context, userID int, role string) ([]db.Request, error)
	GetRequest(ctx context.Context, id int) (*db.Request, error)
	ListEventTypes(ctx context.Context) ([]db.EventType, error)

	CreateOffer(ctx context.Context, p db.CreateOfferParams) (*db.Offer, error)
	GetOffer(ctx context.Context, offerID, callerID int, role string) (*db.OfferWithMusician, error)
	ListOffersForRequest(ctx context.Context, requestID, callerID int, role string) ([]db.Offer, error)
	AcceptOffer(ctx context.Context, offerID, callerID int) (*db.Offer, error)
	RejectOffer(ctx context.Context, offerID, callerID int) (*db.Offer, error)

	ListNotifications(ctx context.Context, userID int) ([]db.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID int) error
}
