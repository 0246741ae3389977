package broadcast

import (
	"context"

	"github.com/ageha-live/liver-front/internal/platform"
	"github.com/ageha-live/liver-front/internal/status"
)

// LiveStarter — часть клиента платформы, создающая трансляцию.
type LiveStarter interface {
	CreateLive(ctx context.Context) (*platform.LiveTokens, int, error)
}

// Stage управляет эфиром: создаёт трансляцию и фиксирует вход на сцену
// и уход с неё.
type Stage struct {
	client LiveStarter
}

// NewStage создаёт управление эфиром поверх клиента платформы.
func NewStage(client LiveStarter) *Stage {
	return &Stage{client: client}
}

// Start создаёт трансляцию и возвращает её токены вместе с записью каталога.
func (s *Stage) Start(ctx context.Context) (*platform.LiveTokens, status.Status) {
	tokens, code, err := s.client.CreateLive(ctx)

	outcome := status.CreateLive.Lookup(status.CodeClientError)
	switch {
	case code == 0:
	case err != nil:
		outcome = status.CreateLive.Lookup(status.CodeOthers)
	default:
		outcome = status.CreateLive.Lookup(code)
	}
	if outcome.OK() && tokens == nil {
		outcome = status.CreateLive.Lookup(status.CodeOthers)
	}
	if !outcome.OK() {
		return nil, outcome
	}
	return tokens, outcome
}

// Join выполняет вход на сцену в фоне и сообщает исход обратным вызовом.
// Результат не ожидается: сцена живёт во внешнем SDK.
func (s *Stage) Join(join func() error, onResult func(error)) {
	go func() {
		err := join()
		if onResult != nil {
			onResult(err)
		}
	}()
}

// Leave выполняет уход со сцены в фоне и сообщает исход обратным вызовом.
func (s *Stage) Leave(leave func() error, onResult func(error)) {
	go func() {
		err := leave()
		if onResult != nil {
			onResult(err)
		}
	}()
}
