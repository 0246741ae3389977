package model

// LoggedInUserInfo — данные вошедшего пользователя, показываемые в шапке
// и используемые воркфлоу обмена для проверки баланса.
type LoggedInUserInfo struct {
	Name     string `json:"name"`
	PointNum int    `json:"point_num"`
}
