package workflow

import (
	"context"
	"sync"

	"github.com/ageha-live/liver-front/internal/diff"
	"github.com/ageha-live/liver-front/internal/model"
	"github.com/ageha-live/liver-front/internal/status"
	"github.com/ageha-live/liver-front/internal/validation"
)

// ProfileClient — часть клиента платформы, нужная сценарию профиля.
type ProfileClient interface {
	FetchProfile(ctx context.Context) (*model.UserProfile, int, error)
	PatchProfile(ctx context.Context, payload diff.Payload) (*model.UserProfile, int, error)
}

// Profile — автомат сценария редактирования профиля. Хранит два снимка:
// initial — последняя подтверждённая платформой редакция, working —
// буфер редактирования. Успешное сохранение продвигает working в initial.
type Profile struct {
	mu     sync.Mutex
	client ProfileClient

	state   State
	fetched bool
	closed  bool

	initial  *model.UserProfile
	snapshot model.Snapshot
	working  model.Snapshot
	rawImage []byte

	lastStatus status.Status
}

// NewProfile создаёт автомат профиля в исходном состоянии.
func NewProfile(client ProfileClient) *Profile {
	return &Profile{client: client, state: StateIdle}
}

// State возвращает текущее состояние автомата.
func (p *Profile) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Initial возвращает последнюю подтверждённую платформой редакцию профиля.
func (p *Profile) Initial() *model.UserProfile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initial
}

// Working возвращает копию буфера редактирования.
func (p *Profile) Working() model.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copySnapshot(p.working)
}

// LastStatus возвращает запись каталога последнего завершённого обращения.
func (p *Profile) LastStatus() status.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastStatus
}

// Fetch загружает профиль. Выполняется ровно один раз за время жизни
// автомата; повторный вызов отклоняется.
func (p *Profile) Fetch(ctx context.Context) (status.Status, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return status.Status{}, ErrClosed
	}
	if p.fetched {
		p.mu.Unlock()
		return status.Status{}, ErrAlreadyFetched
	}
	p.fetched = true
	p.state = StateFetching
	p.mu.Unlock()

	profile, code, err := p.client.FetchProfile(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return status.Status{}, ErrClosed
	}

	outcome := mapOutcome(status.FetchProfile, code, err)
	p.lastStatus = outcome
	if !outcome.OK() {
		p.state = StateFetchError
		return outcome, nil
	}

	p.initial = profile
	p.snapshot = profile.Snapshot()
	p.working = copySnapshot(p.snapshot)
	p.state = StateReady
	return outcome, nil
}

// SetWorking замещает буфер редактирования снимком переданной редакции.
func (p *Profile) SetWorking(profile model.UserProfile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if p.state == StateSubmitting {
		return ErrSubmitInFlight
	}
	p.working = profile.Snapshot()
	return nil
}

// SetImage запоминает новое изображение профиля. Изображение не участвует
// в сравнении снимков и уходит в запрос только добавлением.
func (p *Profile) SetImage(image []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if p.state == StateSubmitting {
		return ErrSubmitInFlight
	}
	p.rawImage = image
	return nil
}

// Submit собирает диф и отправляет частичное обновление. Некорректное имя
// и пустой диф не порождают сетевого вызова.
func (p *Profile) Submit(ctx context.Context) (status.Status, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return status.Status{}, ErrClosed
	}
	if p.state == StateSubmitting {
		p.mu.Unlock()
		return status.Status{}, ErrSubmitInFlight
	}
	if p.state != StateReady && p.state != StateSubmitError {
		p.mu.Unlock()
		return status.Status{}, ErrNotReady
	}

	if err := validation.ProfileName(p.working["name"]); err != nil {
		outcome := status.PatchProfile.Lookup(status.CodeProfileInvalidItem)
		p.lastStatus = outcome
		p.state = StateSubmitError
		p.mu.Unlock()
		return outcome, nil
	}

	payload := diff.Changes(p.snapshot, p.working)
	if p.rawImage != nil {
		payload.AttachImage(p.rawImage)
	}
	if payload.Empty() {
		outcome := status.PatchProfile.Lookup(status.CodeProfileEmptyRequest)
		p.lastStatus = outcome
		p.state = StateSubmitError
		p.mu.Unlock()
		return outcome, nil
	}

	p.state = StateSubmitting
	p.mu.Unlock()

	profile, code, err := p.client.PatchProfile(ctx, payload)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return status.Status{}, ErrClosed
	}

	outcome := mapOutcome(status.PatchProfile, code, err)
	if outcome.OK() && profile == nil {
		outcome = status.PatchProfile.Lookup(status.CodeOthers)
	}
	p.lastStatus = outcome
	if !outcome.OK() {
		p.state = StateSubmitError
		return outcome, nil
	}

	p.initial = profile
	p.snapshot = profile.Snapshot()
	p.working = copySnapshot(p.snapshot)
	p.rawImage = nil
	p.state = StateReconciled
	return outcome, nil
}

// Acknowledge подтверждает показ результата и возвращает автомат к редактированию.
func (p *Profile) Acknowledge() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if p.state != StateReconciled {
		return ErrNotReady
	}
	p.state = StateReady
	return nil
}

// Close завершает сценарий. Ответы, пришедшие после закрытия, отбрасываются.
func (p *Profile) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func copySnapshot(snap model.Snapshot) model.Snapshot {
	dup := make(model.Snapshot, len(snap))
	for field, value := range snap {
		dup[field] = value
	}
	return dup
}
