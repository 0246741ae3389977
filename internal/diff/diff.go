package diff

import (
	"encoding/base64"

	"github.com/ageha-live/liver-front/internal/casing"
	"github.com/ageha-live/liver-front/internal/model"
)

// RawProfileImageKey — ключ, под которым новое изображение профиля
// уходит в запрос обновления. Изображение не участвует в сравнении
// снимков и попадает в запрос только при явной замене.
const RawProfileImageKey = "profile_image_data"

// Payload — тело запроса частичного обновления. Значение nil кодирует
// явный JSON null, то есть удаление поля на платформе.
type Payload map[string]*string

// Changes сравнивает исходный и отредактированный снимки профиля и
// собирает минимальное тело обновления. Ключи переводятся в snake_case.
func Changes(initial, updated model.Snapshot) Payload {
	payload := Payload{}

	for field, before := range initial {
		after, ok := updated[field]
		if !ok {
			payload[casing.CamelToSnake(field)] = nil
			continue
		}
		if after != before {
			value := after
			payload[casing.CamelToSnake(field)] = &value
		}
	}
	for field, after := range updated {
		if _, ok := initial[field]; ok {
			continue
		}
		value := after
		payload[casing.CamelToSnake(field)] = &value
	}

	return payload
}

// AttachImage добавляет в запрос новое изображение профиля в base64.
func (p Payload) AttachImage(image []byte) {
	encoded := base64.StdEncoding.EncodeToString(image)
	p[RawProfileImageKey] = &encoded
}

// Empty сообщает, что запрос не содержит ни одного изменения.
func (p Payload) Empty() bool {
	return len(p) == 0
}
