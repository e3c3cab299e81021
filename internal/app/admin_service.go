package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"lifeweeks_bot/internal/domain/blocklist"
	"lifeweeks_bot/internal/domain/user"
	idb "lifeweeks_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Custom application-level errors for admin service
var ErrAdminNotAuthorized = fmt.Errorf("performing user is not authorized as an admin")

type AdminService struct {
	userRepo        user.Repository
	ledger          blocklist.Ledger
	adminTelegramID int64
	logger          *logrus.Entry
}

func NewAdminService(ur user.Repository, ledger blocklist.Ledger, adminID int64, logger *logrus.Entry) *AdminService {
	return &AdminService{
		userRepo:        ur,
		ledger:          ledger,
		adminTelegramID: adminID,
		logger:          logger,
	}
}

// BanListReport renders the blocked-user ledger joined with stored user data.
// Entries may reference users that no longer exist; those are reported with
// the id and block time only.
func (s *AdminService) BanListReport(ctx context.Context, performingAdminID int64) (string, error) {
	if performingAdminID != s.adminTelegramID {
		return "", ErrAdminNotAuthorized
	}

	entries, err := s.ledger.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load blocked-user ledger: %w", err)
	}
	if len(entries) == 0 {
		return "Нет пользователей, заблокировавших бота.", nil
	}

	ids := make([]int64, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sb strings.Builder
	sb.WriteString("Заблокировавшие бота пользователи:\n\n")
	for _, id := range ids {
		entry := entries[id]
		blockedAt := entry.BlockedAt.Format("2006-01-02 15:04:05")

		u, err := s.userRepo.GetByTelegramID(ctx, id)
		switch {
		case err == nil:
			sb.WriteString(fmt.Sprintf("👤 Имя: %s\n", u.Name))
			sb.WriteString(fmt.Sprintf("📅 Дата рождения: %s\n", u.Birthdate.Format(user.BirthdateLayout)))
			sb.WriteString(fmt.Sprintf("🆔 ID: %d\n", id))
			if u.Username.Valid {
				sb.WriteString(fmt.Sprintf("👤 Логин: @%s\n", u.Username.String))
			}
			sb.WriteString(fmt.Sprintf("⏰ Дата блокировки: %s\n\n", blockedAt))
		case err == idb.ErrUserNotFound:
			sb.WriteString(fmt.Sprintf("🆔 ID: %d\n", id))
			sb.WriteString(fmt.Sprintf("⏰ Дата блокировки: %s\n", blockedAt))
			sb.WriteString("⚠️ Данные пользователя не найдены в базе.\n\n")
		default:
			s.logger.WithError(err).WithField("telegram_id", id).Error("Failed to load user data for ban list report")
			sb.WriteString(fmt.Sprintf("🆔 ID: %d\n", id))
			sb.WriteString(fmt.Sprintf("⏰ Дата блокировки: %s\n", blockedAt))
			sb.WriteString("❌ Ошибка при получении данных.\n\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
