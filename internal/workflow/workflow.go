// Package workflow содержит конечные автоматы пользовательских сценариев:
// заявка на вывод баллов, редактирование профиля, регистрация кандидатки.
// Экземпляр автомата живёт в рамках одного клиентского сеанса.
package workflow

import (
	"errors"

	"github.com/ageha-live/liver-front/internal/status"
)

// State — состояние автомата сценария.
type State string

// Состояния автомата. Загрузка выполняется ровно один раз; ошибочные
// переходы сохраняют буфер редактирования.
const (
	StateIdle        State = "idle"
	StateFetching    State = "fetching"
	StateFetchError  State = "fetch_error"
	StateReady       State = "ready"
	StateSubmitting  State = "submitting"
	StateSubmitError State = "submit_error"
	StateReconciled  State = "reconciled"
)

// Ошибки неверного обращения к автомату.
var (
	ErrNotReady       = errors.New("workflow is not ready")
	ErrAlreadyFetched = errors.New("workflow already fetched")
	ErrSubmitInFlight = errors.New("submit already in flight")
	ErrClosed         = errors.New("workflow is closed")
)

// mapOutcome переводит исход обращения к платформе в запись каталога:
// транспортный сбой — CLIENT_ERROR, неразборчивый успешный ответ — OTHERS,
// остальное ищется по wire-статусу.
func mapOutcome(catalog status.Catalog, code int, err error) status.Status {
	if code == 0 {
		return catalog.Lookup(status.CodeClientError)
	}
	if err != nil {
		return catalog.Lookup(status.CodeOthers)
	}
	return catalog.Lookup(code)
}
