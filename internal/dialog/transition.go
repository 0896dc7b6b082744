package dialog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chucky-1/expenses/internal/model"
)

const (
	AddButton    = "➕ Добавить расход"
	ViewButton   = "🔎 Показать расходы"
	DeleteButton = "🗑 Удалить расход"
	UpdateButton = "✏️ Обновить расход"
)

const (
	GreetingMessage   = "Привет! Я бот для учёта ваших расходов.\nВыберите действие:"
	chooseAction      = "Выберите действие через меню"
	askName           = "Введите название расхода"
	badName           = "Введите корректное название расхода"
	askDate           = "Введите дату расхода в формате DD.MM.YYYY"
	badDate           = "Некорректный формат даты! Введите дату в формате DD.MM.YYYY"
	askAmount         = "Введите сумму в UAH (например: 150.50)"
	badAmount         = "Некорректный формат суммы! Введите положительное число (например: 150.50)"
	askRange          = "Введите период в формате DD.MM.YYYY-DD.MM.YYYY"
	badRange          = "Некорректный формат! Введите период в формате DD.MM.YYYY-DD.MM.YYYY"
	reversedRange     = "Начальная дата не может быть больше конечной! Введите период ещё раз"
	generatingReport  = "Генерирую отчёт..."
	askDeleteID       = "Введите ID расхода, который хотите удалить:"
	askUpdateID       = "Введите ID расхода, который хотите изменить:"
	badID             = "Некорректный ID! Введите целое число"
	askNewName        = "Введите новое название:"
	badNewName        = "Введите корректное название"
	askNewAmount      = "Введите новую сумму (в UAH):"
	emptyList         = "Список расходов пуст."
	createdMessage    = "✅ Расход успешно добавлен!"
	createFailed      = "❌ Не удалось добавить расход. Попробуйте ещё раз."
	requestFailed     = "Ошибка запроса. Попробуйте ещё раз."
	rangeEmptyMessage = "За указанный период расходы не найдены."
	updateIDNotFound  = "Запись с таким ID не найдена.\nВведите ID ещё раз"
)

var (
	dateRegexp  = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)
	rangeRegexp = regexp.MustCompile(`^(\d{2}\.\d{2}\.\d{4})\s*-\s*(\d{2}\.\d{2}\.\d{4})$`)
)

// Transition advances the session with one message of user input.
// It never performs I/O: when a form completes, the resulting API call is
// described in Step.Effect and the session is settled later by Resolve.
func Transition(sess Session, input string) (Session, Step) {
	input = strings.TrimSpace(input)

	switch sess.State {
	case Idle:
		return transitionIdle(sess, input)

	case CollectName:
		if input == "" {
			return sess, Step{Reply: badName}
		}
		sess.Form.Name = input
		sess.State = CollectDate
		return sess, Step{Reply: askDate}

	case CollectDate:
		date, ok := parseDate(input)
		if !ok {
			return sess, Step{Reply: badDate}
		}
		sess.Form.Date = date
		sess.State = CollectAmount
		return sess, Step{Reply: askAmount}

	case CollectAmount:
		amount, ok := parseAmount(input)
		if !ok {
			return sess, Step{Reply: badAmount}
		}
		sess.Form.Amount = amount
		return sess, Step{Effect: &Effect{Kind: EffectCreate, Form: sess.Form}}

	case CollectRange:
		start, end, ok := parseRange(input)
		if !ok {
			return sess, Step{Reply: badRange}
		}
		if start.After(end) {
			return sess, Step{Reply: reversedRange}
		}
		sess.Form.RangeStart = start
		sess.Form.RangeEnd = end
		return sess, Step{Reply: generatingReport, Effect: &Effect{Kind: EffectFetchRange, Form: sess.Form}}

	case CollectDeleteID:
		id, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			// stays in the same state and asks again, like every other collection state
			return sess, Step{Reply: badID}
		}
		sess.Form.TargetID = id
		return sess, Step{Effect: &Effect{Kind: EffectDelete, Form: sess.Form}}

	case CollectUpdateID:
		id, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			return sess, Step{Reply: badID}
		}
		sess.Form.TargetID = id
		return sess, Step{Effect: &Effect{Kind: EffectFetchByID, Form: sess.Form}}

	case CollectNewName:
		if input == "" {
			return sess, Step{Reply: badNewName}
		}
		sess.Form.NewName = input
		sess.State = CollectNewAmount
		return sess, Step{Reply: askNewAmount}

	case CollectNewAmount:
		amount, ok := parseAmount(input)
		if !ok {
			return sess, Step{Reply: badAmount}
		}
		sess.Form.NewAmount = amount
		return sess, Step{Effect: &Effect{Kind: EffectUpdate, Form: sess.Form}}
	}

	return reset(), Step{Reply: chooseAction, ShowMenu: true}
}

func transitionIdle(sess Session, input string) (Session, Step) {
	switch input {
	case AddButton:
		sess.State = CollectName
		return sess, Step{Reply: askName, RemoveMenu: true}
	case ViewButton:
		sess.State = CollectRange
		return sess, Step{Reply: askRange, RemoveMenu: true}
	case DeleteButton:
		return sess, Step{Reply: generatingReport, RemoveMenu: true, Effect: &Effect{Kind: EffectListForDelete}}
	case UpdateButton:
		return sess, Step{Reply: generatingReport, RemoveMenu: true, Effect: &Effect{Kind: EffectListForUpdate}}
	}
	return sess, Step{Reply: chooseAction, ShowMenu: true}
}

// Resolve settles the session once the caller has executed an Effect
func Resolve(sess Session, effect Effect, outcome Outcome) (Session, Step) {
	switch effect.Kind {
	case EffectCreate:
		if outcome.Failed {
			return reset(), Step{Reply: createFailed, ShowMenu: true}
		}
		return reset(), Step{Reply: createdMessage, ShowMenu: true}

	case EffectFetchRange:
		if outcome.NotFound {
			return reset(), Step{Reply: rangeEmptyMessage, ShowMenu: true}
		}
		if outcome.Failed {
			return reset(), Step{Reply: requestFailed, ShowMenu: true}
		}
		return reset(), Step{
			ShowMenu: true,
			Report: &Report{
				Rows:       outcome.Expenses,
				RangeStart: effect.Form.RangeStart,
				RangeEnd:   effect.Form.RangeEnd,
			},
		}

	case EffectListForDelete, EffectListForUpdate:
		if outcome.NotFound {
			return reset(), Step{Reply: emptyList, ShowMenu: true}
		}
		if outcome.Failed {
			return reset(), Step{Reply: requestFailed, ShowMenu: true}
		}
		ask := askDeleteID
		sess.State = CollectDeleteID
		if effect.Kind == EffectListForUpdate {
			ask = askUpdateID
			sess.State = CollectUpdateID
		}
		return sess, Step{
			Reply:  ask,
			Report: &Report{Rows: outcome.Expenses, WithID: true},
		}

	case EffectFetchByID:
		if outcome.NotFound {
			// wrong id is not terminal, the user may try another one
			return sess, Step{Reply: updateIDNotFound}
		}
		if outcome.Failed {
			return reset(), Step{Reply: requestFailed, ShowMenu: true}
		}
		sess.State = CollectNewName
		return sess, Step{Reply: describeExpense(outcome.Expense) + "\n\n" + askNewName}

	case EffectDelete:
		if outcome.NotFound {
			return reset(), Step{Reply: fmt.Sprintf("Расход с ID %d не найден.", effect.Form.TargetID), ShowMenu: true}
		}
		if outcome.Failed {
			return reset(), Step{Reply: requestFailed, ShowMenu: true}
		}
		return reset(), Step{Reply: fmt.Sprintf("Расход с ID %d успешно удалён.", effect.Form.TargetID), ShowMenu: true}

	case EffectUpdate:
		if outcome.NotFound {
			return reset(), Step{Reply: "Такого расхода не существует.", ShowMenu: true}
		}
		if outcome.Failed {
			return reset(), Step{Reply: requestFailed, ShowMenu: true}
		}
		return reset(), Step{Reply: fmt.Sprintf("✅ Расход с ID %d успешно обновлён.", effect.Form.TargetID), ShowMenu: true}
	}

	return reset(), Step{Reply: chooseAction, ShowMenu: true}
}

func reset() Session {
	return Session{}
}

func describeExpense(exp *model.Expense) string {
	return fmt.Sprintf("Найдена запись:\nID: %d\nНазвание: %s\nСумма: %.2f₴ / %.2f$\nДата: %s",
		exp.ID, exp.Name, exp.Amount, exp.AmountUSD, exp.Date.Format(model.DateLayout))
}

func parseDate(input string) (time.Time, bool) {
	if !dateRegexp.MatchString(input) {
		return time.Time{}, false
	}
	date, err := time.Parse(model.DateLayout, input)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func parseAmount(input string) (float64, bool) {
	amount, err := strconv.ParseFloat(strings.ReplaceAll(input, ",", "."), 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

func parseRange(input string) (time.Time, time.Time, bool) {
	match := rangeRegexp.FindStringSubmatch(input)
	if match == nil {
		return time.Time{}, time.Time{}, false
	}
	start, err := time.Parse(model.DateLayout, match[1])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(model.DateLayout, match[2])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
