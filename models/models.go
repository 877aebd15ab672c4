package models

// Роли пользователей, приходящие в JWT-токене.
const (
	RoleClient   = "client"
	RoleLeader   = "leader"
	RoleMusician = "musician"
	RoleAdmin    = "admin"
)

// Статусы заявки, которые backend реально переключает.
const (
	RequestStatusCreated  = "CREATED"
	RequestStatusAccepted = "ACCEPTED"
)

// Расширенный словарь статусов заявки. Используется мобильным клиентом,
// переходы для него backend пока не реализует.
const (
	RequestStatusConfirmed           = "CONFIRMED"
	RequestStatusInProgress          = "IN_PROGRESS"
	RequestStatusCompleted           = "COMPLETED"
	RequestStatusCancelledByClient   = "CANCELLED_BY_CLIENT"
	RequestStatusCancelledByMusician = "CANCELLED_BY_MUSICIAN"
	RequestStatusReopened            = "REOPENED"
	RequestStatusExpired             = "EXPIRED"
	RequestStatusArchived            = "ARCHIVED"
)

// Статусы предложения.
const (
	OfferStatusSent     = "SENT"
	OfferStatusAccepted = "ACCEPTED"
	OfferStatusRejected = "REJECTED"
	// Зарезервированы контрактом API, текущей логикой не используются.
	OfferStatusWithdrawn = "WITHDRAWN"
	OfferStatusSelected  = "SELECTED"
)

// Типы уведомлений.
const (
	NotificationRequestCreated = "REQUEST_CREATED"
	NotificationOfferReceived  = "OFFER_RECEIVED"
	NotificationOfferAccepted  = "OFFER_ACCEPTED"
	NotificationOfferRejected  = "OFFER_REJECTED"
)

// CanCreateRequest проверяет, что роль может публиковать заявки.
func CanCreateRequest(role string) bool {
	return role == RoleClient || role == RoleMusician
}

// CanDecideOffer проверяет, что роль может принимать и отклонять предложения.
func CanDecideOffer(role string) bool {
	return role == RoleClient || role == RoleLeader
}
