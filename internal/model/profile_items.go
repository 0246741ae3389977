package model

import "sort"

// SelectItem — элемент закрытого списка выбора: числовой код на wire
// и подпись для отображения.
type SelectItem struct {
	Value int
	Label string
}

// Закрытые перечисления профиля. Наборы фиксированы на стороне системы;
// коды, не входящие в таблицу, при чтении с wire схлопываются в отсутствие значения.
var (
	// CupSizes — варианты размера чашки.
	CupSizes = []SelectItem{
		{0, "Aカップ"},
		{1, "Bカップ"},
		{2, "Cカップ"},
		{3, "Dカップ"},
		{4, "Eカップ"},
		{5, "Fカップ"},
		{6, "Gカップ"},
		{7, "Hカップ"},
		{8, "Iカップ以上"},
	}

	// BloodTypes — варианты группы крови.
	BloodTypes = []SelectItem{
		{0, "A型"},
		{1, "B型"},
		{2, "O型"},
		{3, "AB型"},
	}

	// Prefectures — префектуры Японии.
	Prefectures = []SelectItem{
		{0, "北海道"}, {1, "青森県"}, {2, "岩手県"}, {3, "宮城県"}, {4, "秋田県"},
		{5, "山形県"}, {6, "福島県"}, {7, "茨城県"}, {8, "栃木県"}, {9, "群馬県"},
		{10, "埼玉県"}, {11, "千葉県"}, {12, "東京都"}, {13, "神奈川県"}, {14, "新潟県"},
		{15, "富山県"}, {16, "石川県"}, {17, "福井県"}, {18, "山梨県"}, {19, "長野県"},
		{20, "岐阜県"}, {21, "静岡県"}, {22, "愛知県"}, {23, "三重県"}, {24, "滋賀県"},
		{25, "京都府"}, {26, "大阪府"}, {27, "兵庫県"}, {28, "奈良県"}, {29, "和歌山県"},
		{30, "鳥取県"}, {31, "島根県"}, {32, "岡山県"}, {33, "広島県"}, {34, "山口県"},
		{35, "徳島県"}, {36, "香川県"}, {37, "愛媛県"}, {38, "高知県"}, {39, "福岡県"},
		{40, "佐賀県"}, {41, "長崎県"}, {42, "熊本県"}, {43, "大分県"}, {44, "宮崎県"},
		{45, "鹿児島県"}, {46, "沖縄県"},
	}

	// UsageTimes — время выхода в эфир.
	UsageTimes = []SelectItem{
		{0, "不定期"},
		{1, "いつでも"},
		{2, "朝"},
		{3, "日中"},
		{4, "夕方"},
		{5, "夜"},
		{6, "深夜"},
	}

	// UsageFrequencies — частота выхода в эфир.
	UsageFrequencies = []SelectItem{
		{0, "週に1日"},
		{1, "週に2日"},
		{2, "週に3日"},
		{3, "週に4日"},
		{4, "週に5日"},
		{5, "週に6日"},
		{6, "週に7日"},
	}

	// Characteristics — особенности характера (многозначное поле).
	Characteristics = []SelectItem{
		{0, "おっとり"},
		{1, "元気"},
	}
)

func findItem(items []SelectItem, value int) (SelectItem, bool) {
	for _, item := range items {
		if item.Value == value {
			return item, true
		}
	}
	return SelectItem{}, false
}

// CupSizeOf возвращает элемент перечисления размеров чашки по коду.
func CupSizeOf(value int) (SelectItem, bool) { return findItem(CupSizes, value) }

// BloodTypeOf возвращает элемент перечисления групп крови по коду.
func BloodTypeOf(value int) (SelectItem, bool) { return findItem(BloodTypes, value) }

// PrefectureOf возвращает префектуру по коду.
func PrefectureOf(value int) (SelectItem, bool) { return findItem(Prefectures, value) }

// UsageTimeOf возвращает время выхода в эфир по коду.
func UsageTimeOf(value int) (SelectItem, bool) { return findItem(UsageTimes, value) }

// UsageFrequencyOf возвращает частоту выхода в эфир по коду.
func UsageFrequencyOf(value int) (SelectItem, bool) { return findItem(UsageFrequencies, value) }

// CharacteristicsOf возвращает отсортированный по коду список известных
// особенностей. Неизвестные коды отбрасываются.
func CharacteristicsOf(values []int) []SelectItem {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	items := make([]SelectItem, 0, len(sorted))
	for _, v := range sorted {
		if item, ok := findItem(Characteristics, v); ok {
			items = append(items, item)
		}
	}
	return items
}
