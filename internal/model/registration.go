package model

// RegistrationInfo — анкета кандидатки на регистрацию. Правила заполнения
// описаны тегами валидатора и проверяются перед отправкой на платформу.
type RegistrationInfo struct {
	Name                string `json:"name" validate:"required"`
	BirthDate           string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Email               string `json:"email" validate:"required,email"`
	PhoneNumber         string `json:"phone_number" validate:"required"`
	IsAccessFromWifi    bool   `json:"is_access_from_wifi"`
	HasAlreadyBeenLiver bool   `json:"has_already_been_liver"`
	IDCardImageData     string `json:"id_card_image_data" validate:"required"`
	IntroducerCode      string `json:"introducer_code,omitempty"`
}
