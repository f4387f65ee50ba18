package domain

import "strings"

// DialogueLine - одна реплика разговора.
type DialogueLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// DialogueTable - разговоры по паре никнеймов. Поиск симметричный.
type DialogueTable struct {
	entries map[string]map[string][]DialogueLine
}

func NewDialogueTable() *DialogueTable {
	return &DialogueTable{entries: make(map[string]map[string][]DialogueLine)}
}

// Add регистрирует разговор a->b. Повторная запись той же пары заменяет предыдущую.
func (t *DialogueTable) Add(a, b string, lines []DialogueLine) {
	inner, ok := t.entries[a]
	if !ok {
		inner = make(map[string][]DialogueLine)
		t.entries[a] = inner
	}
	inner[b] = lines
}

// Lookup ищет разговор (a,b), затем (b,a).
func (t *DialogueTable) Lookup(a, b string) ([]DialogueLine, bool) {
	if t == nil {
		return nil, false
	}
	if lines, ok := t.entries[a][b]; ok {
		return lines, true
	}
	lines, ok := t.entries[b][a]
	return lines, ok
}

func (t *DialogueTable) Len() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, inner := range t.entries {
		n += len(inner)
	}
	return n
}

// LinesFor оставляет только реплики указанного говорящего.
func LinesFor(lines []DialogueLine, speaker string) []DialogueLine {
	var out []DialogueLine
	for _, l := range lines {
		if l.Speaker == speaker {
			out = append(out, l)
		}
	}
	return out
}

// ParseTranscript разбирает стенограмму.
// Формы: `Taro「こんにちは」Hanako「やあ」` или `Taro: hello | Hanako: hi` (разделитель "|" или перевод строки).
// Сегменты без говорящего отбрасываются.
func ParseTranscript(s string) []DialogueLine {
	var segments []string
	if strings.Contains(s, "「") {
		s = strings.ReplaceAll(s, "「", "：")
		segments = strings.Split(s, "」")
	} else {
		segments = strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == '\n' })
	}

	var out []DialogueLine
	for _, seg := range segments {
		speaker, text, ok := cutSpeaker(seg)
		if !ok || speaker == "" {
			continue
		}
		out = append(out, DialogueLine{Speaker: speaker, Text: text})
	}
	return out
}

// cutSpeaker режет "<speaker>:<text>" по первому ":" или "：".
func cutSpeaker(seg string) (speaker, text string, ok bool) {
	i := strings.IndexAny(seg, ":：")
	if i < 0 {
		return "", "", false
	}
	sep := ":"
	if strings.HasPrefix(seg[i:], "：") {
		sep = "："
	}
	return strings.TrimSpace(seg[:i]), strings.TrimSpace(seg[i+len(sep):]), true
}
