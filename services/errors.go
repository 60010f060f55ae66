package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed   = errors.New("validation failed")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInviteExpired      = errors.New("invite has expired")
	ErrInviteNotUsable    = errors.New("invite was already used or revoked")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrPlayerNotInGroup   = errors.New("player is not a member of the duplicate group")
	ErrInvalidPhoto       = errors.New("unsupported photo type")

	// Ошибки конфликтов
	ErrUserEmailConflict = errors.New("email address is already in use")
	ErrAspectKeyConflict = errors.New("rating aspect key is already in use")
	ErrMetricKeyConflict = errors.New("observation metric key is already in use")
	ErrMergeIncomplete   = errors.New("merge stopped before completion, run repair for this group")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
	ErrAccountInactive      = errors.New("account is deactivated")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound         = errors.New("user not found")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrGroupNotFound        = errors.New("duplicate group not found")
	ErrGlobalPlayerNotFound = errors.New("global player not found")
	ErrAspectNotFound       = errors.New("rating aspect not found")
	ErrMetricNotFound       = errors.New("observation metric not found")

	ErrStorageUnavailable = errors.New("photo storage is not configured")
)
