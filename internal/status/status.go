// Package status содержит каталоги статусов ответов по каждому эндпоинту бэкенда.
//
// Каждый внешне видимый исход запроса разрешается ровно в одну запись каталога;
// слой представления никогда не ветвится по сырым числовым кодам.
package status

import "net/http"

// Status описывает семантический исход запроса и сообщение для пользователя.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OK возвращает true для успешного исхода.
func (s Status) OK() bool {
	return s.Code == http.StatusOK
}

// Псевдо-коды чисто клиентских исходов. Сервер такие коды никогда не возвращает,
// поэтому UI может отличать их от настоящих wire-статусов и не перерисовывать
// ошибки полей, которые сервер не проверял.
const (
	// CodeOthers — неопознанный код или успешный ответ с непригодным телом.
	CodeOthers = -1
	// CodeClientError — сбой транспорта или разбора до получения ответа.
	CodeClientError = -100
	// CodeTransferInvalidItem — локально обнаруженный некорректный ввод заявки.
	CodeTransferInvalidItem = -200
	// CodeProfileEmptyRequest — пустой диф профиля, запрос не отправлялся.
	CodeProfileEmptyRequest = -200
	// CodeProfileInvalidItem — локально обнаруженный некорректный ввод профиля.
	CodeProfileInvalidItem = -300
	// CodeRegistrationInvalidItem — локально обнаруженный некорректный ввод анкеты.
	CodeRegistrationInvalidItem = -200
)

// Catalog — закрытая таблица статусов одного эндпоинта.
type Catalog struct {
	entries map[int]Status
	others  Status
}

func newCatalog(others Status, entries ...Status) Catalog {
	m := make(map[int]Status, len(entries)+1)
	m[others.Code] = others
	for _, e := range entries {
		m[e.Code] = e
	}
	return Catalog{entries: m, others: others}
}

// Lookup возвращает запись каталога для указанного кода.
// Неопознанные коды разрешаются в запись «通信エラー» (OTHERS).
func (c Catalog) Lookup(code int) Status {
	if s, ok := c.entries[code]; ok {
		return s
	}
	return c.others
}

// Len возвращает количество записей каталога.
func (c Catalog) Len() int {
	return len(c.entries)
}

// FetchTransferRequest — каталог получения текущей заявки на обмен поинтов.
var FetchTransferRequest = newCatalog(
	Status{CodeOthers, "通信エラー"},
	Status{http.StatusOK, "通信成功"},
	Status{http.StatusForbidden, "他のユーザーの情報は取得できません"},
	Status{http.StatusNotFound, "取得しようとしたユーザーが見つかりません"},
	Status{CodeClientError, "取得処理に失敗しました"},
)

// PostTransferRequest — каталог создания заявки на обмен поинтов.
var PostTransferRequest = newCatalog(
	Status{CodeOthers, "通信エラー"},
	Status{http.StatusOK, "通信成功"},
	Status{http.StatusBadRequest, "必要な情報が不足しています"},
	Status{http.StatusForbidden, "他のユーザーの申請はできません"},
	Status{http.StatusNotFound, "申請しようとしたユーザーが見つかりません"},
	Status{http.StatusConflict, "申請に失敗しました\n\n以下の原因が考えられます\n・既に申請している\n・PTが不足している\n・申請したPT数が最低金額を下回っている、最高金額を超えている"},
	Status{http.StatusInternalServerError, "サーバーでエラーが発生しました"},
	Status{CodeClientError, "申請処理に失敗しました"},
	Status{CodeTransferInvalidItem, "入力に不備があります"},
)

// FetchProfile — каталог получения профиля пользователя.
var FetchProfile = newCatalog(
	Status{CodeOthers, "通信エラー"},
	Status{http.StatusOK, "通信成功"},
	Status{http.StatusForbidden, "他のユーザーのプロフィールは取得できません"},
	Status{http.StatusNotFound, "取得しようとしたユーザーが見つかりません"},
	Status{http.StatusInternalServerError, "取得中にサーバーでエラーが発生しました"},
	Status{CodeClientError, "取得処理に失敗しました"},
)

// PatchProfile — каталог частичного обновления профиля.
var PatchProfile = newCatalog(
	Status{CodeOthers, "通信エラー"},
	Status{http.StatusOK, "通信成功"},
	Status{http.StatusForbidden, "他のユーザーのプロフィールは編集できません"},
	Status{http.StatusNotFound, "編集しようとしたユーザーが見つかりません"},
	Status{http.StatusUnsupportedMediaType, "画像データに問題があるため、編集に失敗しました"},
	Status{http.StatusInternalServerError, "サーバーでエラーが発生しました"},
	Status{CodeClientError, "編集処理に失敗しました"},
	Status{CodeProfileEmptyRequest, "更新する項目がありません"},
	Status{CodeProfileInvalidItem, "入力に不備があります"},
)

// FetchCurrentUser — каталог получения информации о текущем пользователе.
var FetchCurrentUser = newCatalog(
	Status{CodeOthers, "通信エラー"},
	Status{http.StatusOK, "通信成功"},
	Status{CodeClientError, "取得処理に失敗しました"},
)

// PostRegistration — каталог отправки анкеты соискателя.
var PostRegistration = newCatalog(
	Status{CodeOthers, "通信エラー"},
	Status{http.StatusOK, "通信成功"},
	Status{http.StatusBadRequest, "必要な情報が不足しています"},
	Status{http.StatusConflict, "既に登録されているメールアドレスです"},
	Status{http.StatusUnsupportedMediaType, "画像データに問題があるため、登録に失敗しました"},
	Status{CodeClientError, "登録処理に失敗しました"},
	Status{CodeRegistrationInvalidItem, "入力に不備があります"},
)

// CreateLive — каталог создания эфира.
var CreateLive = newCatalog(
	Status{CodeOthers, "通信エラー"},
	Status{http.StatusOK, "通信成功"},
	Status{http.StatusForbidden, "配信を開始する権限がありません"},
	Status{http.StatusInternalServerError, "サーバーでエラーが発生しました"},
	Status{CodeClientError, "配信の開始処理に失敗しました"},
)
