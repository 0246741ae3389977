package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"

	"github.com/ageha-live/liver-front/internal/model"
)

// Ошибки проверки пользовательского ввода. Обработчики переводят их
// в ответы с кодом недопустимого значения.
var (
	ErrPointNumMissing     = errors.New("request point num is missing")
	ErrPointNumTooSmall    = fmt.Errorf("request point num is below %d", model.MinRequestPointNum)
	ErrPointNumTooLarge    = fmt.Errorf("request point num is above %d", model.MaxRequestPointNum)
	ErrPointNumOverBalance = errors.New("request point num exceeds balance")
	ErrPhoneNumber         = errors.New("phone number is invalid")
	ErrInvoiceNumber       = errors.New("invoice registered number is invalid")
)

var invoiceDigits = regexp.MustCompile(`^[0-9]{13}$`)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RequestPointNum проверяет сумму вывода: нижняя и верхняя границы плюс
// остаток баллов, если он известен. Возвращает проверенное значение.
func RequestPointNum(n *int, balance *int) (int, error) {
	if n == nil {
		return 0, ErrPointNumMissing
	}
	if *n < model.MinRequestPointNum {
		return 0, ErrPointNumTooSmall
	}
	if *n > model.MaxRequestPointNum {
		return 0, ErrPointNumTooLarge
	}
	if balance != nil && *n > *balance {
		return 0, ErrPointNumOverBalance
	}
	return *n, nil
}

// PhoneNumber разбирает номер телефона как японский и приводит его к E.164.
func PhoneNumber(raw string) (string, error) {
	parsed, err := phonenumbers.Parse(raw, "JP")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPhoneNumber, err)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", ErrPhoneNumber
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

// InvoiceRegisteredNum проверяет регистрационный номер по системе инвойсов.
// Пустая строка допустима и означает отсутствие номера; тринадцать цифр
// приводятся к канонической форме с префиксом T.
func InvoiceRegisteredNum(raw string) (string, bool, error) {
	if raw == "" {
		return "", false, nil
	}
	if !invoiceDigits.MatchString(raw) {
		return "", false, ErrInvoiceNumber
	}
	return model.InvoiceNumberPrefix + raw, true, nil
}

// ProfileName проверяет имя профиля перед сохранением.
func ProfileName(name string) error {
	return model.ValidateProfileName(name)
}

// Registration проверяет анкету кандидатки по её тегам.
func Registration(info model.RegistrationInfo) error {
	return validate.Struct(info)
}
