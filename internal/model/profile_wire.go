package model

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrMissingName возвращается, когда в ответе платформы отсутствует имя профиля.
var ErrMissingName = errors.New("profile payload has no name")

// IntList — список числовых кодов, который платформа отдаёт либо как
// JSON-массив, либо как массив, сериализованный в строку.
type IntList []int

// UnmarshalJSON принимает обе формы представления списка.
func (l *IntList) UnmarshalJSON(data []byte) error {
	var values []int
	if err := json.Unmarshal(data, &values); err == nil {
		*l = values
		return nil
	}

	var wrapped string
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	wrapped = strings.TrimSpace(wrapped)
	if wrapped == "" {
		*l = nil
		return nil
	}
	if err := json.Unmarshal([]byte(wrapped), &values); err != nil {
		return err
	}
	*l = values
	return nil
}

// NumberString — значение, которое платформа отдаёт либо JSON-числом,
// либо строкой. Хранится в строковой форме.
type NumberString string

// UnmarshalJSON принимает обе формы представления значения.
func (n *NumberString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = NumberString(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = NumberString(num.String())
	return nil
}

// ProfileWire — профиль в wire-формате платформы. Числовые коды
// закрытых списков здесь ещё не разрешены в подписи.
type ProfileWire struct {
	Name                   *string      `json:"name"`
	ImageURL               string       `json:"image_url"`
	Preference             string       `json:"preference"`
	Hobby                  string       `json:"hobby"`
	Personality            string       `json:"personality"`
	Job                    string       `json:"job"`
	Comment                string       `json:"comment"`
	PrText                 string       `json:"pr_text"`
	BirthDate              string       `json:"birth_date"`
	Height                 NumberString `json:"height"`
	BwhSize                string       `json:"bwh_size"`
	CupSizeType            *int         `json:"cup_size_type"`
	BloodType              *int         `json:"blood_type"`
	PrefectureType         *int         `json:"prefecture_type"`
	UsageTimeType          *int         `json:"usage_time_type"`
	UsageFrequencyType     *int         `json:"usage_frequency_type"`
	CharacteristicTypeList IntList      `json:"characteristic_type_list"`
}

// ToProfile разрешает wire-представление в доменный профиль.
// Пустые строки и коды вне закрытых списков схлопываются в отсутствие значения.
func (w ProfileWire) ToProfile() (*UserProfile, error) {
	if w.Name == nil {
		return nil, ErrMissingName
	}

	p := &UserProfile{
		Name:     *w.Name,
		ImageURL: w.ImageURL,
	}

	optString := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	p.Preference = optString(w.Preference)
	p.Hobby = optString(w.Hobby)
	p.Personality = optString(w.Personality)
	p.Job = optString(w.Job)
	p.Comment = optString(w.Comment)
	p.PrText = optString(w.PrText)

	if birth, ok := ParseBirthDate(w.BirthDate); ok {
		p.BirthDate = &birth
	}
	if height, err := strconv.Atoi(string(w.Height)); err == nil && w.Height != "" {
		p.Height = &height
	}
	if bwh, ok := ParseBwhSize(w.BwhSize); ok {
		p.BwhSize = &bwh
	}

	resolve := func(code *int, lookup func(int) (SelectItem, bool)) *SelectItem {
		if code == nil {
			return nil
		}
		item, ok := lookup(*code)
		if !ok {
			return nil
		}
		return &item
	}
	p.CupSize = resolve(w.CupSizeType, CupSizeOf)
	p.BloodType = resolve(w.BloodType, BloodTypeOf)
	p.Prefecture = resolve(w.PrefectureType, PrefectureOf)
	p.UsageTime = resolve(w.UsageTimeType, UsageTimeOf)
	p.UsageFrequency = resolve(w.UsageFrequencyType, UsageFrequencyOf)
	p.Characteristics = CharacteristicsOf(w.CharacteristicTypeList)

	return p, nil
}

// Wire собирает wire-представление профиля обратно из доменной формы.
func (p UserProfile) Wire() ProfileWire {
	name := p.Name
	w := ProfileWire{
		Name:     &name,
		ImageURL: p.ImageURL,
	}

	str := func(v *string) string {
		if v == nil {
			return ""
		}
		return *v
	}
	w.Preference = str(p.Preference)
	w.Hobby = str(p.Hobby)
	w.Personality = str(p.Personality)
	w.Job = str(p.Job)
	w.Comment = str(p.Comment)
	w.PrText = str(p.PrText)

	if p.BirthDate != nil {
		w.BirthDate = p.BirthDate.CanonicalString()
	}
	if p.Height != nil {
		w.Height = NumberString(strconv.Itoa(*p.Height))
	}
	if p.BwhSize != nil {
		w.BwhSize = p.BwhSize.CanonicalString()
	}

	code := func(item *SelectItem) *int {
		if item == nil {
			return nil
		}
		v := item.Value
		return &v
	}
	w.CupSizeType = code(p.CupSize)
	w.BloodType = code(p.BloodType)
	w.PrefectureType = code(p.Prefecture)
	w.UsageTimeType = code(p.UsageTime)
	w.UsageFrequencyType = code(p.UsageFrequency)

	if len(p.Characteristics) > 0 {
		values := make(IntList, 0, len(p.Characteristics))
		for _, item := range p.Characteristics {
			values = append(values, item.Value)
		}
		w.CharacteristicTypeList = values
	}

	return w
}
