package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jazlogic/Share-Musician-sub000/db"
	"github.com/Jazlogic/Share-Musician-sub000/internal/apperr"
	"github.com/Jazlogic/Share-Musician-sub000/internal/handlers/testutils"
	"github.com/Jazlogic/Share-Musician-sub000/models"
)

func TestCreateOfferHandler(t *testing.T) {
	handler := newTestHandler(&MockStorage{})

	reqBody := `{"request_id": 1, "price": 100, "message": "Puedo tocar toda la ceremonia"}`
	req := httptest.NewRequest(http.MethodPost, "/offer", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req = testutils.WithIdentity(req, 11, models.RoleMusician)
	w := httptest.NewRecorder()

	handler.CreateOfferHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Contains(t, string(body), models.OfferStatusSent)
}

func TestCreateOfferHandlerForbiddenRole(t *testing.T) {
	handler := newTestHandler(&MockStorage{})

	reqBody := `{"request_id": 1, "price": 100}`
	req := httptest.NewRequest(http.MethodPost, "/offer", strings.NewReader(reqBody))
	req = testutils.WithIdentity(req, 11, models.RoleClient)
	w := httptest.NewRecorder()

	handler.CreateOfferHandler(w, req)

	require.Equal(t, http.StatusForbidden, w.Result().StatusCode)
}

func TestCreateOfferHandlerNonPositivePrice(t *testing.T) {
	handler := newTestHandler(&MockStorage{})

	for _, price := range []string{"0", "-5"} {
		reqBody := `{"request_id": 1, "price": ` + price + `}`
		req := httptest.NewRequest(http.MethodPost, "/offer", strings.NewReader(reqBody))
		req = testutils.WithIdentity(req, 11, models.RoleMusician)
		w := httptest.NewRecorder()

		handler.CreateOfferHandler(w, req)

		require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	}
}

func TestCreateOfferHandlerDuplicate(t *testing.T) {
	mockStore := &MockStorage{
		CreateOfferFunc: func(ctx context.Context, p db.CreateOfferParams) (*db.Offer, error) {
			return nil, apperr.Conflict("offer already exists for this request")
		},
	}
	handler := newTestHandler(mockStore)

	reqBody := `{"request_id": 1, "price": 100}`
	req := httptest.NewRequest(http.MethodPost, "/offer", strings.NewReader(reqBody))
	req = testutils.WithIdentity(req, 11, models.RoleMusician)
	w := httptest.NewRecorder()

	handler.CreateOfferHandler(w, req)

	require.Equal(t, http.StatusConflict, w.Result().StatusCode)
}

func TestCreateOfferHandlerOwnRequest(t *testing.T) {
	mockStore := &MockStorage{
		CreateOfferFunc: func(ctx context.Context, p db.CreateOfferParams) (*db.Offer, error) {
			return nil, apperr.Validation("cannot make an offer for your own request")
		},
	}
	handler := newTestHandler(mockStore)

	reqBody := `{"request_id": 1, "price": 100}`
	req := httptest.NewRequest(http.MethodPost, "/offer", strings.NewReader(reqBody))
	req = testutils.WithIdentity(req, 11, models.RoleMusician)
	w := httptest.NewRecorder()

	handler.CreateOfferHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestCreateOfferHandlerRequestGone(t *testing.T) {
	mockStore := &MockStorage{
		CreateOfferFunc: func(ctx context.Context, p db.CreateOfferParams) (*db.Offer, error) {
			return nil, apperr.NotFound("request is not available for offers")
		},
	}
	handler := newTestHandler(mockStore)

	reqBody := `{"request_id": 1, "price": 100}`
	req := httptest.NewRequest(http.MethodPost, "/offer", strings.NewReader(reqBody))
	req = testutils.WithIdentity(req, 11, models.RoleMusician)
	w := httptest.NewRecorder()

	handler.CreateOfferHandler(w, req)

	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestGetOfferHandler(t *testing.T) {
	handler := newTestHandler(&MockStorage{})

	req := httptest.NewRequest(http.MethodGet, "/offer/3", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"id": "3"})
	req = testutils.WithIdentity(req, 11, models.RoleMusician)
	w := httptest.NewRecorder()

	handler.GetOfferHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "Juan Perez")
}

func TestGetOfferHandlerFilteredLooksMissing(t *testing.T) {
	mockStore := &MockStorage{
		GetOfferFunc: func(ctx context.Context, offerID, callerID int, role string) (*db.OfferWithMusician, error) {
			return nil, apperr.NotFound("offer not found")
		},
	}
	handler := newTestHandler(mockStore)

	req := httptest.NewRequest(http.MethodGet, "/offer/3", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"id": "3"})
	req = testutils.WithIdentity(req, 99, models.RoleMusician)
	w := httptest.NewRecorder()

	handler.GetOfferHandler(w, req)

	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestAcceptOfferHandler(t *testing.T) {
	var gotOfferID, gotCallerID int
	mockStore := &MockStorage{
		AcceptOfferFunc: func(ctx context.Context, offerID, callerID int) (*db.Offer, error) {
			gotOfferID = offerID
			gotCallerID = callerID
			return &db.Offer{ID: offerID, Status: models.OfferStatusAccepted}, nil
		},
	}
	handler := newTestHandler(mockStore)

	req := httptest.NewRequest(http.MethodPost, "/offer/5/accept", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"id": "5"})
	req = testutils.WithIdentity(req, 7, models.RoleClient)
	w := httptest.NewRecorder()

	handler.AcceptOfferHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `{"id": 5, "status": "ACCEPTED"}`, string(body))
	require.Equal(t, 5, gotOfferID)
	require.Equal(t, 7, gotCallerID)
}

func TestAcceptOfferHandlerForbiddenRole(t *testing.T) {
	handler := newTestHandler(&MockStorage{})

	req := httptest.NewRequest(http.MethodPost, "/offer/5/accept", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"id": "5"})
	req = testutils.WithIdentity(req, 7, models.RoleMusician)
	w := httptest.NewRecorder()

	handler.AcceptOfferHandler(w, req)

	require.Equal(t, http.StatusForbidden, w.Result().StatusCode)
}

func TestAcceptOfferHandlerNotOwner(t *testing.T) {
	mockStore := &MockStorage{
		AcceptOfferFunc: func(ctx context.Context, offerID, callerID int) (*db.Offer, error) {
			return nil, apperr.Forbidden("only the request owner can accept an offer")
		},
	}
	handler := newTestHandler(mockStore)

	req := httptest.NewRequest(http.MethodPost, "/offer/5/accept", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"id": "5"})
	req = testutils.WithIdentity(req, 8, models.RoleClient)
	w := httptest.NewRecorder()

	handler.AcceptOfferHandler(w, req)

	require.Equal(t, http.StatusForbidden, w.Result().StatusCode)
}

func TestAcceptOfferHandlerAlreadyDecided(t *testing.T) {
	mockStore := &MockStorage{
		AcceptOfferFunc: func(ctx context.Context, offerID, callerID int) (*db.Offer, error) {
			return nil, apperr.Validation("offer cannot be accepted")
		},
	}
	handler := newTestHandler(mockStore)

	req := httptest.NewRequest(http.MethodPost, "/offer/5/accept", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"id": "5"})
	req = testutils.WithIdentity(req, 7, models.RoleClient)
	w := httptest.NewRecorder()

	handler.AcceptOfferHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestAcceptOfferHandlerRequestTaken(t *testing.T) {
	mockStore := &MockStorage{
		AcceptOfferFunc: func(ctx context.Context, offerID, callerID int) (*db.Offer, error) {
			return nil, apperr.Conflict("request is no longer available")
		},
	}
	handler := newTestHandler(mockStore)

	req := httptest.NewRequest(http.MethodPost, "/offer/5/accept", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"id": "5"})
	req = testutils.WithIdentity(req, 7, models.RoleClient)
	w := httptest.NewRecorder()

	handler.AcceptOfferHandler(w, req)

	require.Equal(t, http.StatusConflict, w.Result().StatusCode)
}

func TestRejectOfferHandler(t *testing.T) {
	handler := newTestHandler(&MockStorage{})

	req := httptest.NewRequest(http.MethodPost, "/offer/5/reject", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"id": "5"})
	req = testutils.WithIdentity(req, 7, models.RoleLeader)
	w := httptest.NewRecorder()

	handler.RejectOfferHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `{"id": 5, "status": "REJECTED"}`, string(body))
}

func TestRejectOfferHandlerAlreadyRejected(t *testing.T) {
	mockStore := &MockStorage{
		RejectOfferFunc: func(ctx context.Context, offerID, callerID int) (*db.Offer, error) {
			return nil, apperr.Validation("offer cannot be rejected")
		},
	}
	handler := newTestHandler(mockStore)

	req := httptest.NewRequest(http.MethodPost, "/offer/5/reject", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"id": "5"})
	req = testutils.WithIdentity(req, 7, models.RoleClient)
	w := httptest.NewRecorder()

	handler.RejectOfferHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestGetOffersForRequestHandler(t *testing.T) {
	handler := newTestHandler(&MockStorage{})

	req := httptest.NewRequest(http.MethodGet, "/offer/request/1", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"requestId": "1"})
	req = testutils.WithIdentity(req, 7, models.RoleClient)
	w := httptest.NewRecorder()

	handler.GetOffersForRequestHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), models.OfferStatusSent)
}

func TestGetOffersForRequestHandlerNotOwner(t *testing.T) {
	mockStore := &MockStorage{
		ListOffersForRequestFunc: func(ctx context.Context, requestID, callerID int, role string) ([]db.Offer, error) {
			return nil, apperr.Forbidden("only the request owner can view its offers")
		},
	}
	handler := newTestHandler(mockStore)

	req := httptest.NewRequest(http.MethodGet, "/offer/request/1", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"requestId": "1"})
	req = testutils.WithIdentity(req, 8, models.RoleClient)
	w := httptest.NewRecorder()

	handler.GetOffersForRequestHandler(w, req)

	require.Equal(t, http.StatusForbidden, w.Result().StatusCode)
}
