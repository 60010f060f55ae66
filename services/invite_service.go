package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Dosada05/scouting-system/models"
	"github.com/Dosada05/scouting-system/repositories"
)

const (
	inviteTokenLength  = 16 // 32 символа в hex
	defaultInviteDays  = 7
	maxInviteDays      = 90
	inviteTokenRetries = 3
)

var ErrInviteTokenGeneration = errors.New("failed to generate unique invite token")

type InviteService interface {
	Create(ctx context.Context, adminID string, input models.CreateInviteInput) (*models.Invite, error)
	List(ctx context.Context) ([]models.Invite, error)
	GetByToken(ctx context.Context, token string) (*models.Invite, error)
	Revoke(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
	// Accept создает учетную запись по приглашению и сразу выдает токен.
	Accept(ctx context.Context, input models.AcceptInviteInput) (*LoginResult, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type inviteService struct {
	inviteRepo repositories.InviteRepository
	userRepo   repositories.UserRepository
	auth       AuthService
	inTx       TxRunner
	mailer     Mailer
	publicURL  string
	logger     *slog.Logger
	now        func() time.Time
}

func NewInviteService(
	inviteRepo repositories.InviteRepository,
	userRepo repositories.UserRepository,
	auth AuthService,
	inTx TxRunner,
	mailer Mailer,
	publicURL string,
	logger *slog.Logger,
) InviteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &inviteService{
		inviteRepo: inviteRepo,
		userRepo:   userRepo,
		auth:       auth,
		inTx:       inTx,
		mailer:     mailer,
		publicURL:  strings.TrimRight(publicURL, "/"),
		logger:     logger,
		now:        time.Now,
	}
}

func (s *inviteService) Create(ctx context.Context, adminID string, input models.CreateInviteInput) (*models.Invite, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: invalid email", ErrValidationFailed)
		}
	}
	role := input.Role
	if role == "" {
		role = models.RoleScout
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	days := input.Days
	if days <= 0 {
		days = defaultInviteDays
	}
	if days > maxInviteDays {
		return nil, fmt.Errorf("%w: invite may last at most %d days", ErrValidationFailed, maxInviteDays)
	}

	for attempt := 0; attempt < inviteTokenRetries; attempt++ {
		token, err := generateSecureToken(inviteTokenLength)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInviteTokenGeneration, err)
		}

		invite := &models.Invite{
			Name:      strings.TrimSpace(input.Name),
			Email:     email,
			Role:      role,
			Token:     token,
			Status:    models.InviteStatusPending,
			CreatedBy: adminID,
			ExpiresAt: s.now().Add(time.Duration(days) * 24 * time.Hour),
		}
		err = s.inviteRepo.Create(ctx, invite)
		if err == nil {
			invite.Link = s.link(invite.Token)
			s.deliver(ctx, *invite)
			return invite, nil
		}
		if !errors.Is(err, repositories.ErrInviteTokenConflict) {
			return nil, fmt.Errorf("failed to create invite: %w", err)
		}
		// Конфликт токена, пробуем снова
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrInviteTokenGeneration, inviteTokenRetries)
}

func (s *inviteService) link(token string) string {
	return s.publicURL + "/auth/finish?invite=" + token
}

// deliver отправляет письмо, если у приглашения есть адрес. Ошибка доставки не отменяет
// приглашение: ссылку можно передать вручную.
func (s *inviteService) deliver(ctx context.Context, invite models.Invite) {
	if s.mailer == nil || invite.Email == "" {
		return
	}
	if err := s.mailer.SendInvite(ctx, invite, invite.Link); err != nil {
		s.logger.WarnContext(ctx, "failed to send invite email", slog.Int("invite_id", invite.ID), slog.Any("error", err))
	}
}

func (s *inviteService) List(ctx context.Context) ([]models.Invite, error) {
	invites, err := s.inviteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	for i := range invites {
		invites[i].Link = s.link(invites[i].Token)
	}
	return invites, nil
}

func (s *inviteService) GetByToken(ctx context.Context, token string) (*models.Invite, error) {
	invite, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get invite by token: %w", err)
	}
	if invite.Status != models.InviteStatusPending {
		return nil, ErrInviteNotUsable
	}
	if invite.IsExpired(s.now()) {
		return nil, ErrInviteExpired
	}
	return invite, nil
}

func (s *inviteService) Revoke(ctx context.Context, id int) error {
	if err := s.inviteRepo.SetStatus(ctx, nil, id, models.InviteStatusRevoked); err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return ErrInviteNotFound
		}
		return err
	}
	return nil
}

func (s *inviteService) Delete(ctx context.Context, id int) error {
	if err := s.inviteRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return ErrInviteNotFound
		}
		return err
	}
	return nil
}

func (s *inviteService) Accept(ctx context.Context, input models.AcceptInviteInput) (*LoginResult, error) {
	invite, err := s.GetByToken(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	email := invite.Email
	if email == "" {
		email = strings.ToLower(strings.TrimSpace(input.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: a valid email is required", ErrValidationFailed)
		}
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		FullName:     firstNonEmpty(strings.TrimSpace(input.FullName), invite.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         invite.Role,
		Active:       true,
	}

	err = s.inTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.userRepo.Create(ctx, exec, user); err != nil {
			return err
		}
		return s.inviteRepo.SetStatus(ctx, exec, invite.ID, models.InviteStatusAccepted)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("failed to accept invite %d: %w", invite.ID, err)
	}

	s.logger.InfoContext(ctx, "invite accepted", slog.Int("invite_id", invite.ID), slog.String("user_id", user.ID), slog.String("role", string(user.Role)))

	token, err := s.auth.IssueToken(*user)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return &LoginResult{Token: token, User: *user}, nil
}

func (s *inviteService) DeleteExpired(ctx context.Context) (int64, error) {
	return s.inviteRepo.DeleteExpired(ctx)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
