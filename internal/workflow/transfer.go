package workflow

import (
	"context"
	"sync"

	"github.com/ageha-live/liver-front/internal/model"
	"github.com/ageha-live/liver-front/internal/platform"
	"github.com/ageha-live/liver-front/internal/status"
	"github.com/ageha-live/liver-front/internal/validation"
)

// TransferClient — часть клиента платформы, нужная сценарию заявки.
type TransferClient interface {
	FetchTransferRequestInfo(ctx context.Context) (*model.TransferRequestInfo, int, error)
	PostTransferRequest(ctx context.Context, body platform.PostTransferRequestBody) (*platform.TransferRequestResult, int, error)
}

// Transfer — автомат сценария заявки на вывод баллов.
type Transfer struct {
	mu     sync.Mutex
	client TransferClient

	state   State
	fetched bool
	closed  bool

	current *model.TransferRequestInfo
	balance *int

	phoneNumber          string
	requestPointNum      *int
	invoiceRegisteredNum string

	lastStatus status.Status
}

// NewTransfer создаёт автомат заявки в исходном состоянии.
func NewTransfer(client TransferClient) *Transfer {
	return &Transfer{client: client, state: StateIdle}
}

// State возвращает текущее состояние автомата.
func (t *Transfer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Current возвращает последнюю подтверждённую платформой заявку.
func (t *Transfer) Current() *model.TransferRequestInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// LastStatus возвращает запись каталога последнего завершённого обращения.
func (t *Transfer) LastStatus() status.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastStatus
}

// SetBalance задаёт известный остаток баллов для проверки суммы.
func (t *Transfer) SetBalance(balance int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balance = &balance
}

// SetInput запоминает ввод формы. Буфер переживает ошибочные переходы.
func (t *Transfer) SetInput(phoneNumber string, requestPointNum *int, invoiceRegisteredNum string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if t.state == StateSubmitting {
		return ErrSubmitInFlight
	}
	t.phoneNumber = phoneNumber
	t.requestPointNum = requestPointNum
	t.invoiceRegisteredNum = invoiceRegisteredNum
	return nil
}

// Fetch загружает текущую заявку. Выполняется ровно один раз за время
// жизни автомата; повторный вызов отклоняется.
func (t *Transfer) Fetch(ctx context.Context) (status.Status, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return status.Status{}, ErrClosed
	}
	if t.fetched {
		t.mu.Unlock()
		return status.Status{}, ErrAlreadyFetched
	}
	t.fetched = true
	t.state = StateFetching
	t.mu.Unlock()

	info, code, err := t.client.FetchTransferRequestInfo(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return status.Status{}, ErrClosed
	}

	outcome := mapOutcome(status.FetchTransferRequest, code, err)
	t.lastStatus = outcome
	if !outcome.OK() {
		t.state = StateFetchError
		return outcome, nil
	}

	t.current = info
	t.state = StateReady
	return outcome, nil
}

// Submit проверяет ввод и отправляет заявку. Некорректный ввод не
// порождает сетевого вызова; одновременно в полёте может быть не больше
// одной отправки.
func (t *Transfer) Submit(ctx context.Context) (status.Status, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return status.Status{}, ErrClosed
	}
	if t.state == StateSubmitting {
		t.mu.Unlock()
		return status.Status{}, ErrSubmitInFlight
	}
	if t.state != StateReady && t.state != StateSubmitError {
		t.mu.Unlock()
		return status.Status{}, ErrNotReady
	}

	phone, phoneErr := validation.PhoneNumber(t.phoneNumber)
	points, pointsErr := validation.RequestPointNum(t.requestPointNum, t.balance)
	_, _, invoiceErr := validation.InvoiceRegisteredNum(t.invoiceRegisteredNum)
	if phoneErr != nil || pointsErr != nil || invoiceErr != nil {
		outcome := status.PostTransferRequest.Lookup(status.CodeTransferInvalidItem)
		t.lastStatus = outcome
		t.state = StateSubmitError
		t.mu.Unlock()
		return outcome, nil
	}

	t.state = StateSubmitting
	t.mu.Unlock()

	result, code, err := t.client.PostTransferRequest(ctx, platform.PostTransferRequestBody{
		PhoneNumber:     phone,
		RequestPointNum: points,
	})

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return status.Status{}, ErrClosed
	}

	outcome := mapOutcome(status.PostTransferRequest, code, err)
	if outcome.OK() && (result == nil || result.Info == nil || result.Point == nil) {
		outcome = status.PostTransferRequest.Lookup(status.CodeOthers)
	}
	t.lastStatus = outcome
	if !outcome.OK() {
		t.state = StateSubmitError
		return outcome, nil
	}

	t.current = result.Info
	t.balance = &result.Point.PointNum
	t.state = StateReconciled
	return outcome, nil
}

// Acknowledge подтверждает показ результата и возвращает автомат к редактированию.
func (t *Transfer) Acknowledge() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if t.state != StateReconciled {
		return ErrNotReady
	}
	t.state = StateReady
	return nil
}

// Close завершает сценарий. Ответы, пришедшие после закрытия, отбрасываются.
func (t *Transfer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
}

// Inputs возвращает текущий буфер ввода формы.
func (t *Transfer) Inputs() (string, *int, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phoneNumber, t.requestPointNum, t.invoiceRegisteredNum
}
