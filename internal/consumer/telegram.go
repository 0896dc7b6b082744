// Package consumer
package consumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/chucky-1/expenses/internal/client"
	"github.com/chucky-1/expenses/internal/dialog"
	"github.com/chucky-1/expenses/internal/model"
	"github.com/chucky-1/expenses/internal/producer"
)

const start = "start"

const effectTimeout = 10 * time.Second

const chatUpdatesBuffer = 8

// Bot reads telegram updates and drives the dialog state machine.
// Updates of one chat are handled in order by a dedicated goroutine,
// different chats interleave freely. Chat workers idle longer than
// chatTTL are closed so the channel map does not grow forever.
type Bot struct {
	bot          *tgbotapi.BotAPI
	updatesChan  tgbotapi.UpdatesChannel
	sessions     *dialog.Sessions
	api          *client.Expense
	chatChannels map[int64]chan tgbotapi.Update
	lastSeen     map[int64]time.Time
	chatTTL      time.Duration
}

func NewBot(bot *tgbotapi.BotAPI, updatesChan tgbotapi.UpdatesChannel, sessions *dialog.Sessions, api *client.Expense,
	chatTTL time.Duration) *Bot {
	return &Bot{
		bot:          bot,
		updatesChan:  updatesChan,
		sessions:     sessions,
		api:          api,
		chatChannels: make(map[int64]chan tgbotapi.Update),
		lastSeen:     make(map[int64]time.Time),
		chatTTL:      chatTTL,
	}
}

func (b *Bot) Consume(ctx context.Context) {
	logrus.Infof("telegram bot %s started consuming", b.bot.Self.UserName)

	sweep := time.NewTicker(b.chatTTL)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("bot consumer stopped: %v", ctx.Err())
			return

		case <-sweep.C:
			if retired := b.sweepIdleChats(time.Now()); retired > 0 {
				logrus.Infof("bot consumer retired %d idle chat workers", retired)
			}

		case update := <-b.updatesChan:
			if update.Message == nil {
				continue
			}

			chatID := update.Message.Chat.ID
			ch, ok := b.chatChannels[chatID]
			if !ok {
				ch = make(chan tgbotapi.Update, chatUpdatesBuffer)
				b.chatChannels[chatID] = ch
				go b.consumeChat(ctx, ch)
			}
			b.lastSeen[chatID] = time.Now()

			// dropping beats stalling every other chat behind one flooded worker
			select {
			case ch <- update:
			default:
				logrus.Warnf("chat %d is flooded, dropping update", chatID)
			}
		}
	}
}

// sweepIdleChats closes workers whose chat has been quiet for chatTTL
func (b *Bot) sweepIdleChats(now time.Time) int {
	retired := 0
	for chatID, seen := range b.lastSeen {
		if now.Sub(seen) >= b.chatTTL {
			close(b.chatChannels[chatID])
			delete(b.chatChannels, chatID)
			delete(b.lastSeen, chatID)
			retired++
		}
	}
	return retired
}

func (b *Bot) consumeChat(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if message.IsCommand() {
		switch message.Command() {
		case start:
			b.sessions.Put(chatID, dialog.Session{})
			if err := b.sendMessage(chatID, dialog.GreetingMessage, menuKeyboard()); err != nil {
				logrus.Errorf("bot consumer: %v", err)
			}
		default:
			logrus.Infof("unknown command: %s", message.Text)
		}
		return
	}

	sess := b.sessions.Get(chatID)
	sess, step := dialog.Transition(sess, message.Text)

	if err := b.performStep(chatID, step); err != nil {
		logrus.Errorf("bot consumer: %v", err)
	}

	if step.Effect != nil {
		outcome := b.execute(ctx, *step.Effect)
		var resolved dialog.Step
		sess, resolved = dialog.Resolve(sess, *step.Effect, outcome)
		if err := b.performStep(chatID, resolved); err != nil {
			logrus.Errorf("bot consumer: %v", err)
		}
	}

	b.sessions.Put(chatID, sess)
}

func (b *Bot) performStep(chatID int64, step dialog.Step) error {
	if step.Report != nil {
		if err := b.sendReport(chatID, *step.Report, reportMarkup(step)); err != nil {
			return err
		}
	}

	if step.Reply == "" {
		return nil
	}
	return b.sendMessage(chatID, step.Reply, stepMarkup(step))
}

func stepMarkup(step dialog.Step) interface{} {
	switch {
	case step.ShowMenu:
		return menuKeyboard()
	case step.RemoveMenu:
		return tgbotapi.NewRemoveKeyboard(true)
	}
	return nil
}

// reportMarkup attaches the step's keyboard to the document itself when the
// document is the last message of the step, so a report-only step still
// restores the menu
func reportMarkup(step dialog.Step) interface{} {
	if step.Reply != "" {
		return nil
	}
	return stepMarkup(step)
}

func (b *Bot) execute(ctx context.Context, effect dialog.Effect) dialog.Outcome {
	newCtx, cancel := context.WithTimeout(ctx, effectTimeout)
	defer cancel()

	form := effect.Form
	switch effect.Kind {
	case dialog.EffectCreate:
		return toOutcome(b.api.Create(newCtx, form.Name, form.Amount, form.Date))

	case dialog.EffectFetchRange:
		expenses, err := b.api.GetByRange(newCtx, form.RangeStart, form.RangeEnd)
		return listOutcome(expenses, err)

	case dialog.EffectListForDelete, dialog.EffectListForUpdate:
		expenses, err := b.api.GetAll(newCtx)
		return listOutcome(expenses, err)

	case dialog.EffectFetchByID:
		expense, err := b.api.GetByID(newCtx, form.TargetID)
		outcome := toOutcome(err)
		outcome.Expense = expense
		return outcome

	case dialog.EffectDelete:
		return toOutcome(b.api.Delete(newCtx, form.TargetID))

	case dialog.EffectUpdate:
		return toOutcome(b.api.Update(newCtx, form.TargetID, form.NewName, form.NewAmount))
	}
	return dialog.Outcome{Failed: true}
}

func (b *Bot) sendReport(chatID int64, report dialog.Report, markup interface{}) error {
	document, totals, err := producer.BuildReport(report.Rows, report.WithID)
	if err != nil {
		return fmt.Errorf("bot consumer couldn't build report: %v", err)
	}

	caption := "Все расходы"
	name := "expenses_all_report.xlsx"
	if !report.RangeStart.IsZero() {
		caption = producer.RangeCaption(report.RangeStart, report.RangeEnd, totals)
		name = "expenses_report.xlsx"
	}

	msg := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  name,
		Bytes: document,
	})
	msg.Caption = caption
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	if _, err = b.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram bot couldn't send report: %v", err)
	}
	return nil
}

func (b *Bot) sendMessage(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	if _, err := b.bot.Send(msg); err != nil {
		return fmt.Errorf("sendMessage, telegram bot couldn't send message: %v", err)
	}
	return nil
}

func menuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(dialog.AddButton)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(dialog.ViewButton)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(dialog.DeleteButton)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(dialog.UpdateButton)),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func toOutcome(err error) dialog.Outcome {
	if err == nil {
		return dialog.Outcome{}
	}
	if errors.Is(err, client.NotFoundErr) {
		return dialog.Outcome{NotFound: true}
	}
	logrus.Errorf("bot consumer: effect failed: %v", err)
	return dialog.Outcome{Failed: true}
}

func listOutcome(expenses []model.Expense, err error) dialog.Outcome {
	outcome := toOutcome(err)
	outcome.Expenses = expenses
	return outcome
}
