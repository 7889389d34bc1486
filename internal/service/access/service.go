package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/fvnks/konecte-relay/internal/metrics"
	"github.com/fvnks/konecte-relay/internal/model"
	"github.com/fvnks/konecte-relay/internal/repository"
	"github.com/fvnks/konecte-relay/internal/util"
)

var (
	ErrInvalidPhone = errors.New("phone has no digits")
	ErrUserNotFound = errors.New("user not found")
)

const (
	ReasonNotVerified     = "phone not verified"
	ReasonPlanLacksAccess = "plan lacks whatsapp"
)

// Service answers WhatsApp access-control queries against the konecte users
// table. Phone lookups match on the last 9 digits only: the web app and the
// bot integration both produce E.164-ish strings whose "+"/country-code
// prefixes disagree, and the suffix is the stable part.
type Service struct {
	users repository.UsersRepository
}

func New(users repository.UsersRepository) *Service {
	return &Service{users: users}
}

// CheckByPhone resolves a raw phone via suffix match and grants access when
// the matched user's phone is verified.
func (s *Service) CheckByPhone(ctx context.Context, rawPhone string) (model.AccessResult, error) {
	suffix := util.DigitSuffix(rawPhone)
	if suffix == "" {
		metrics.AccessChecksTotal.WithLabelValues("phone", "error").Inc()
		return model.AccessResult{}, ErrInvalidPhone
	}

	u, err := s.users.FindBySuffix(ctx, suffix)
	if err != nil {
		metrics.AccessChecksTotal.WithLabelValues("phone", "error").Inc()
		return model.AccessResult{}, fmt.Errorf("find user by suffix: %w", err)
	}
	if u == nil {
		metrics.AccessChecksTotal.WithLabelValues("phone", "not_found").Inc()
		return model.AccessResult{}, ErrUserNotFound
	}

	if !u.PhoneVerified {
		metrics.AccessChecksTotal.WithLabelValues("phone", "denied").Inc()
		return model.AccessResult{Granted: false, Reason: ReasonNotVerified, UserID: u.ID}, nil
	}

	metrics.AccessChecksTotal.WithLabelValues("phone", "granted").Inc()
	return model.AccessResult{Granted: true, UserID: u.ID}, nil
}

// CheckByID grants access when the user's plan carries the WhatsApp feature
// flag. Used by the admin/bot integration that already knows the user id.
func (s *Service) CheckByID(ctx context.Context, userID int64) (model.AccessResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		metrics.AccessChecksTotal.WithLabelValues("id", "error").Inc()
		return model.AccessResult{}, fmt.Errorf("get user by id: %w", err)
	}
	if u == nil {
		metrics.AccessChecksTotal.WithLabelValues("id", "not_found").Inc()
		return model.AccessResult{}, ErrUserNotFound
	}

	if !u.PlanWhatsApp {
		metrics.AccessChecksTotal.WithLabelValues("id", "denied").Inc()
		return model.AccessResult{Granted: false, Reason: ReasonPlanLacksAccess, UserID: u.ID}, nil
	}

	metrics.AccessChecksTotal.WithLabelValues("id", "granted").Inc()
	return model.AccessResult{Granted: true, UserID: u.ID}, nil
}
