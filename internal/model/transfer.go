// Package model содержит доменные сущности клиентской части платформы.
package model

// ReviewStatus описывает статус рассмотрения заявки на обмен поинтов.
// Значение выставляет только бэкенд.
type ReviewStatus string

const (
	ReviewStatusReviewing ReviewStatus = "reviewing"
	ReviewStatusAccepted  ReviewStatus = "accepted"
	ReviewStatusRejected  ReviewStatus = "rejected"
)

// Границы допустимого количества поинтов в одной заявке.
const (
	MinRequestPointNum = 3_000
	MaxRequestPointNum = 500_000
)

// Префикс и формат регистрационного номера плательщика (инвойс).
const (
	InvoiceNumberPrefix = "T"
	InvoiceNumberDigits = 13
)

// TransferRequestInfo описывает заявку на обмен поинтов.
// Черновик создаётся на клиенте с незаполненными полями; после успешной
// отправки заменяется канонической записью, возвращённой сервером.
type TransferRequestInfo struct {
	RequestPointNum *int         `json:"request_point_num"`
	Status          ReviewStatus `json:"status"`
}

// InReviewing возвращает true, если заявка находится на рассмотрении
// и ввод новой заявки заблокирован.
func (t *TransferRequestInfo) InReviewing() bool {
	return t != nil && t.Status == ReviewStatusReviewing
}

// UserPointInfo содержит баланс поинтов пользователя.
// Значение обновляется только из ответов сервера.
type UserPointInfo struct {
	PointNum int `json:"point_num"`
}
