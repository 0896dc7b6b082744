package consumer

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"github.com/chucky-1/expenses/internal/dialog"
	"github.com/chucky-1/expenses/internal/model"
)

func TestRangeReportDocumentRestoresMenu(t *testing.T) {
	effect := dialog.Effect{Kind: dialog.EffectFetchRange, Form: dialog.Form{
		RangeStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}}
	rows := []model.Expense{{ID: 1, Name: "Кофе", Amount: 10, AmountUSD: 1}}

	sess, step := dialog.Resolve(dialog.Session{State: dialog.CollectRange}, effect, dialog.Outcome{Expenses: rows})
	require.Equal(t, dialog.Idle, sess.State)
	require.NotNil(t, step.Report)
	require.Empty(t, step.Reply)
	require.True(t, step.ShowMenu)

	// the document is the last message of the step, the keyboard rides on it
	require.IsType(t, tgbotapi.ReplyKeyboardMarkup{}, reportMarkup(step))
}

func TestListingDocumentCarriesNoKeyboard(t *testing.T) {
	effect := dialog.Effect{Kind: dialog.EffectListForDelete}
	rows := []model.Expense{{ID: 1, Name: "Кофе", Amount: 10, AmountUSD: 1}}

	_, step := dialog.Resolve(dialog.Session{}, effect, dialog.Outcome{Expenses: rows})
	require.NotNil(t, step.Report)
	require.NotEmpty(t, step.Reply)

	// the id prompt follows the document, neither shows the menu mid-form
	require.Nil(t, reportMarkup(step))
	require.Nil(t, stepMarkup(step))
}

func TestStepMarkup(t *testing.T) {
	require.IsType(t, tgbotapi.ReplyKeyboardMarkup{}, stepMarkup(dialog.Step{ShowMenu: true}))
	require.IsType(t, tgbotapi.ReplyKeyboardRemove{}, stepMarkup(dialog.Step{RemoveMenu: true}))
	require.Nil(t, stepMarkup(dialog.Step{}))
}

func TestSweepIdleChats(t *testing.T) {
	b := NewBot(nil, nil, nil, nil, 30*time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	idle := make(chan tgbotapi.Update, chatUpdatesBuffer)
	fresh := make(chan tgbotapi.Update, chatUpdatesBuffer)
	b.chatChannels[1] = idle
	b.chatChannels[2] = fresh
	b.lastSeen[1] = now.Add(-time.Hour)
	b.lastSeen[2] = now.Add(-time.Minute)

	require.Equal(t, 1, b.sweepIdleChats(now))
	require.NotContains(t, b.chatChannels, int64(1))
	require.Contains(t, b.chatChannels, int64(2))

	// the retired channel is closed so its worker goroutine exits
	_, ok := <-idle
	require.False(t, ok)
}

func TestConsumeChatStopsOnRetiredChannel(t *testing.T) {
	b := &Bot{}
	ch := make(chan tgbotapi.Update)

	done := make(chan struct{})
	go func() {
		b.consumeChat(context.Background(), ch)
		close(done)
	}()

	close(ch)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("chat worker did not stop after its channel was retired")
	}
}
