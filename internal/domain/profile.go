package domain

import "strings"

// DefaultLocale - язык, на который откатываемся при отсутствии перевода.
const DefaultLocale = "en"

// Profile - строка ростера: кто этот человек и куда он любит ходить.
type Profile struct {
	ID       string            `json:"id"`
	Nickname string            `json:"nickname"`
	Names    map[string]string `json:"names"`
	Intros   map[string]string `json:"intros"`
	Words    map[string]string `json:"words"`
	Icon     string            `json:"icon"`
	Color    string            `json:"color"`

	// Patterns - циклический список групп категорий назначения.
	Patterns [][]string `json:"patterns"`
	// Comments - реплики по категории (amenity -> варианты).
	Comments map[string][]string `json:"comments,omitempty"`
}

// LocaleTexts - тексты профиля на выбранном языке.
type LocaleTexts struct {
	Name  string `json:"name"`
	Intro string `json:"intro"`
	Word  string `json:"word"`
}

// Texts выбирает тексты профиля для локали.
func (p *Profile) Texts(locale string) LocaleTexts {
	return LocaleTexts{
		Name:  Localized(p.Names, locale),
		Intro: Localized(p.Intros, locale),
		Word:  Localized(p.Words, locale),
	}
}

// Localized ищет значение по точной локали, затем по языку без региона, затем en.
func Localized(m map[string]string, locale string) string {
	if v, ok := m[locale]; ok && v != "" {
		return v
	}
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		if v, ok := m[locale[:i]]; ok && v != "" {
			return v
		}
	}
	return m[DefaultLocale]
}

// ParseRoutingPattern: группы через "|", категории внутри группы через пробел.
// "restaurant cafe | bank" -> [[restaurant cafe] [bank]]
func ParseRoutingPattern(s string) [][]string {
	var out [][]string
	for _, group := range strings.Split(s, "|") {
		fields := strings.Fields(group)
		if len(fields) == 0 {
			continue
		}
		out = append(out, fields)
	}
	return out
}

// ParseRoutingComments: записи через "|", каждая "amenity:реплика".
// Несколько записей для одной категории складываются в пул.
func ParseRoutingComments(s string) map[string][]string {
	out := make(map[string][]string)
	for _, entry := range strings.Split(s, "|") {
		key, comment, ok := cutSpeaker(entry)
		if !ok || key == "" || comment == "" {
			continue
		}
		out[key] = append(out[key], comment)
	}
	return out
}

// PopupLabels - подписи полей статуса агента.
type PopupLabels struct {
	Name        string `json:"name"`
	Destination string `json:"destination"`
	StoppedBy   string `json:"stoppedBy"`
	Intro       string `json:"intro"`
	Word        string `json:"word"`
}

var popupLabels = map[string]PopupLabels{
	"ja": {Name: "名前:", Destination: "目的地:", StoppedBy: "立ち寄った場所:", Intro: "自己紹介:", Word: "ちょっと一言:"},
	"en": {Name: "Name:", Destination: "Destination:", StoppedBy: "stopped by:", Intro: "self-introduction:", Word: "a little word:"},
}

// Labels возвращает подписи для локали (fallback en).
func Labels(locale string) PopupLabels {
	if l, ok := popupLabels[locale]; ok {
		return l
	}
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		if l, ok := popupLabels[locale[:i]]; ok {
			return l
		}
	}
	return popupLabels[DefaultLocale]
}
