package workflow

import (
	"context"

	"github.com/ageha-live/liver-front/internal/model"
	"github.com/ageha-live/liver-front/internal/status"
	"github.com/ageha-live/liver-front/internal/validation"
)

// RegistrationClient — часть клиента платформы, нужная сценарию регистрации.
type RegistrationClient interface {
	PostRegistration(ctx context.Context, info model.RegistrationInfo) (int, error)
}

// RegisterApplicant проверяет анкету кандидатки и отправляет её на
// платформу. Некорректная анкета не порождает сетевого вызова.
// Сценарий одношаговый, поэтому автомат ему не нужен.
func RegisterApplicant(ctx context.Context, client RegistrationClient, info model.RegistrationInfo) status.Status {
	phone, err := validation.PhoneNumber(info.PhoneNumber)
	if err != nil {
		return status.PostRegistration.Lookup(status.CodeRegistrationInvalidItem)
	}
	info.PhoneNumber = phone

	if err := validation.Registration(info); err != nil {
		return status.PostRegistration.Lookup(status.CodeRegistrationInvalidItem)
	}

	code, err := client.PostRegistration(ctx, info)
	return mapOutcome(status.PostRegistration, code, err)
}
