// internal/infra/telegram/handlers.go
package telegram

import (
	"context"
	"errors"
	"fmt"

	"lifeweeks_bot/internal/app"
	"lifeweeks_bot/internal/domain/lifeweeks"
	"lifeweeks_bot/internal/domain/user"
	idb "lifeweeks_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Reply keyboard shown to registered users.
var (
	menu      = &telebot.ReplyMarkup{ResizeKeyboard: true}
	btnQuote  = menu.Text("📜 Получить случайную цитату")
	btnStatus = menu.Text("📊 Статус")
	btnReset  = menu.Text("Перезаписать данные")
)

func init() {
	menu.Reply(
		menu.Row(btnQuote),
		menu.Row(btnStatus),
		menu.Row(btnReset),
	)
}

// RegisterHandlers wires all bot commands, the registration dialog, and the
// keyboard buttons.
func RegisterHandlers(
	ctx context.Context,
	b *telebot.Bot,
	userRepo user.Repository,
	regService *app.RegistrationService,
	factsService *app.FactsService,
	quoteService *app.QuoteService,
	adminService *app.AdminService,
	baseLogger *logrus.Entry,
) {
	log := baseLogger.WithField("handler_group", "bot")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := log.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		u, err := userRepo.GetByTelegramID(ctx, senderID)
		if err == nil {
			weeks := lifeweeks.WeeksLived(u.Birthdate, c.Message().Time())
			return c.Send(fmt.Sprintf("Привет, %s! 👋 Вы прожили %s. Ваша дата рождения: %s.",
				u.Name,
				lifeweeks.WeeksText(weeks, lifeweeks.CaseNominative, false),
				u.Birthdate.Format(user.BirthdateLayout)),
				menu)
		}
		if err != idb.ErrUserNotFound {
			logCtx.WithError(err).Error("Error loading user for /start command")
			return c.Send("Произошла ошибка. Пожалуйста, попробуйте позже.")
		}

		regService.Begin(senderID)
		return c.Send("Здравствуйте! Я бот, который будет присылать вам уведомление о каждой прожитой неделе. Давайте познакомимся. Как вас зовут?")
	})

	b.Handle("/ban_list", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := log.WithField("command", "/ban_list").WithField("sender_id", senderID)
		logCtx.Info("Processing /ban_list command")

		report, err := adminService.BanListReport(ctx, senderID)
		if err != nil {
			if errors.Is(err, app.ErrAdminNotAuthorized) {
				return c.Send("У вас нет доступа к этой команде.")
			}
			logCtx.WithError(err).Error("Error building ban list report")
			return c.Send("Произошла ошибка при получении списка заблокированных пользователей.")
		}
		return c.Send(report)
	})

	b.Handle(&btnStatus, func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := log.WithField("button", "status").WithField("sender_id", senderID)

		u, err := userRepo.GetByTelegramID(ctx, senderID)
		if err != nil {
			if err == idb.ErrUserNotFound {
				return c.Send("Я вас не знаю, напишите /start для знакомства!")
			}
			logCtx.WithError(err).Error("Error loading user for status")
			return c.Send("Произошла ошибка. Пожалуйста, попробуйте позже.")
		}

		weeks := lifeweeks.WeeksLived(u.Birthdate, c.Message().Time())
		fact := factsService.RandomFact(senderID, u.Birthdate)
		return c.Send(fmt.Sprintf("%s, вы прожили %s. Ваша дата рождения: %s. 🎉\n\n%s",
			u.Name,
			lifeweeks.WeeksText(weeks, lifeweeks.CaseAccusative, true),
			u.Birthdate.Format(user.BirthdateLayout),
			fact))
	})

	b.Handle(&btnQuote, func(c telebot.Context) error {
		quote, err := quoteService.Random()
		if err != nil {
			if errors.Is(err, app.ErrQuotesFileMissing) {
				return c.Send("⚠️ Файл с цитатами не найден. Убедитесь, что он существует.")
			}
			if errors.Is(err, app.ErrQuotesFileEmpty) {
				return c.Send("Файл с цитатами пуст. Добавьте цитаты и попробуйте снова.")
			}
			log.WithError(err).Error("Error reading quotes file")
			return c.Send("Произошла ошибка. Пожалуйста, попробуйте позже.")
		}
		return c.Send(fmt.Sprintf("✨\n\n %s ", quote))
	})

	b.Handle(&btnReset, func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := log.WithField("button", "reset").WithField("sender_id", senderID)

		if err := regService.Reset(ctx, senderID); err != nil {
			logCtx.WithError(err).Error("Error resetting user data")
			return c.Send("Произошла ошибка. Пожалуйста, попробуйте позже.")
		}
		factsService.Forget(senderID)
		return c.Send("Давайте обновим ваши данные! Как вас зовут?")
	})

	// Free-form text is only meaningful inside the registration dialog.
	b.Handle(telebot.OnText, func(c telebot.Context) error {
		senderID := c.Sender().ID
		state, inDialog := regService.State(senderID)
		if !inDialog {
			return nil
		}
		logCtx := log.WithField("dialog_state", string(state)).WithField("sender_id", senderID)

		switch state {
		case app.StateAwaitingName:
			name, err := regService.SubmitName(senderID, c.Text())
			if err != nil {
				if errors.Is(err, user.ErrNameLength) {
					return c.Send("Имя должно содержать от 2 до 50 символов! Попробуйте снова.")
				}
				logCtx.WithError(err).Error("Error handling name input")
				return c.Send("Произошла ошибка. Пожалуйста, попробуйте позже.")
			}
			return c.Send(fmt.Sprintf("Приятно познакомиться, %s! Теперь укажите вашу дату рождения в формате ДД.ММ.ГГГГ.", name))

		case app.StateAwaitingBirthdate:
			username := c.Sender().Username
			_, weeks, err := regService.SubmitBirthdate(ctx, senderID, username, c.Text())
			if err != nil {
				switch {
				case errors.Is(err, user.ErrBirthdateInFuture):
					return c.Send("Вы не могли родиться в будущем. Попробуйте снова.")
				case errors.Is(err, user.ErrBirthdateTooOld):
					return c.Send("Год рождения не может быть раньше 1900 года. Попробуйте снова.")
				case errors.Is(err, user.ErrBirthdateFormat):
					return c.Send("Ошибка! Введите дату в формате ДД.ММ.ГГГГ")
				default:
					logCtx.WithError(err).Error("Error handling birthdate input")
					return c.Send("Произошла ошибка. Пожалуйста, попробуйте позже.")
				}
			}
			return c.Send(fmt.Sprintf("Отлично! 🎉 Вы прожили %s. Теперь я буду напоминать вам о каждой новой неделе!",
				lifeweeks.WeeksText(weeks, lifeweeks.CaseAccusative, false)), menu)
		}
		return nil
	})
}
