package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrEmptyName возвращается, когда имя профиля после обрезки пробелов пустое.
var ErrEmptyName = errors.New("profile name is empty")

// BirthDate — дата рождения как составное значение из трёх полей формы.
type BirthDate struct {
	Year  int
	Month int
	Day   int
}

// CanonicalString приводит дату к форме YYYY-MM-DD с нулевым дополнением.
func (b BirthDate) CanonicalString() string {
	return fmt.Sprintf("%04d-%02d-%02d", b.Year, b.Month, b.Day)
}

// Valid проверяет, что комбинация год-месяц-день существует в календаре.
func (b BirthDate) Valid() bool {
	if b.Year < 1 || b.Month < 1 || b.Month > 12 || b.Day < 1 {
		return false
	}
	t := time.Date(b.Year, time.Month(b.Month), b.Day, 0, 0, 0, 0, time.UTC)
	return t.Year() == b.Year && int(t.Month()) == b.Month && t.Day() == b.Day
}

// ParseBirthDate разбирает каноническую форму YYYY-MM-DD.
// Пустая строка и некалендарные даты дают отсутствие значения.
func ParseBirthDate(s string) (BirthDate, bool) {
	if s == "" {
		return BirthDate{}, false
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return BirthDate{}, false
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return BirthDate{}, false
	}
	b := BirthDate{Year: year, Month: month, Day: day}
	if !b.Valid() {
		return BirthDate{}, false
	}
	return b, true
}

// BwhSize — три обхвата фигуры как составное значение.
type BwhSize struct {
	Bust  int
	Waist int
	Hip   int
}

// CanonicalString приводит обхваты к форме B-W-H.
func (s BwhSize) CanonicalString() string {
	return fmt.Sprintf("%d-%d-%d", s.Bust, s.Waist, s.Hip)
}

// ParseBwhSize разбирает каноническую форму B-W-H. Пустая строка и
// неполный набор чисел дают отсутствие значения.
func ParseBwhSize(s string) (BwhSize, bool) {
	if s == "" {
		return BwhSize{}, false
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return BwhSize{}, false
	}
	bust, err1 := strconv.Atoi(parts[0])
	waist, err2 := strconv.Atoi(parts[1])
	hip, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return BwhSize{}, false
	}
	return BwhSize{Bust: bust, Waist: waist, Hip: hip}, true
}

// UserProfile — редактируемый профиль вещательницы. Указатели означают,
// что значение может отсутствовать; имя присутствует всегда.
type UserProfile struct {
	Name            string
	ImageURL        string
	Preference      *string
	Hobby           *string
	Personality     *string
	Job             *string
	Comment         *string
	PrText          *string
	BirthDate       *BirthDate
	Height          *int
	BwhSize         *BwhSize
	CupSize         *SelectItem
	BloodType       *SelectItem
	Prefecture      *SelectItem
	UsageTime       *SelectItem
	UsageFrequency  *SelectItem
	Characteristics []SelectItem
}

// ValidateProfileName проверяет имя профиля: после обрезки пробелов
// оно не должно быть пустым.
func ValidateProfileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Snapshot — независимая от wire-формата проекция профиля: имя поля в
// camelCase сопоставлено канонической строке значения. Отсутствующие
// поля в снимок не входят; имя входит всегда, даже пустое.
type Snapshot map[string]string

// Snapshot строит снимок профиля для сравнения редакций.
func (p UserProfile) Snapshot() Snapshot {
	snap := Snapshot{"name": p.Name}

	putString := func(key string, v *string) {
		if v != nil {
			snap[key] = *v
		}
	}
	putString("preference", p.Preference)
	putString("hobby", p.Hobby)
	putString("personality", p.Personality)
	putString("job", p.Job)
	putString("comment", p.Comment)
	putString("prText", p.PrText)

	if p.BirthDate != nil {
		snap["birthDate"] = p.BirthDate.CanonicalString()
	}
	if p.Height != nil {
		snap["height"] = strconv.Itoa(*p.Height)
	}
	if p.BwhSize != nil {
		snap["bwhSize"] = p.BwhSize.CanonicalString()
	}

	putSelect := func(key string, item *SelectItem) {
		if item != nil {
			snap[key] = strconv.Itoa(item.Value)
		}
	}
	putSelect("cupSizeType", p.CupSize)
	putSelect("bloodType", p.BloodType)
	putSelect("prefectureType", p.Prefecture)
	putSelect("usageTimeType", p.UsageTime)
	putSelect("usageFrequencyType", p.UsageFrequency)

	if len(p.Characteristics) > 0 {
		values := make([]string, 0, len(p.Characteristics))
		for _, item := range p.Characteristics {
			values = append(values, strconv.Itoa(item.Value))
		}
		snap["characteristicTypeList"] = "[" + strings.Join(values, ",") + "]"
	}

	return snap
}
