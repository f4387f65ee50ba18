package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoutingPattern(t *testing.T) {
	got := ParseRoutingPattern(" restaurant  cafe | bank |  | library ")
	assert.Equal(t, [][]string{{"restaurant", "cafe"}, {"bank"}, {"library"}}, got)
	assert.Empty(t, ParseRoutingPattern(""))
}

func TestParseRoutingComments(t *testing.T) {
	got := ParseRoutingComments("cafe:Coffee time|cafe：もう一杯|bank: Need cash|broken")
	assert.Equal(t, []string{"Coffee time", "もう一杯"}, got["cafe"])
	assert.Equal(t, []string{"Need cash"}, got["bank"])
	assert.NotContains(t, got, "broken")
}

func TestLocalized(t *testing.T) {
	m := map[string]string{"en": "Taro", "ja": "太郎"}

	tests := []struct {
		locale string
		want   string
	}{
		{"ja", "太郎"},
		{"ja-JP", "太郎"},
		{"en-GB", "Taro"},
		{"fr", "Taro"},
		{"", "Taro"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, Localized(m, tt.locale))
		})
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "名前:", Labels("ja").Name)
	assert.Equal(t, "Name:", Labels("it").Name)
}

func TestAgentStatusText(t *testing.T) {
	p := &Profile{
		Nickname: "taro",
		Names:    map[string]string{"en": "Taro"},
		Intros:   map[string]string{"en": "Hi"},
		Words:    map[string]string{"en": "Nice day"},
		Patterns: [][]string{{"cafe"}},
	}
	a := NewAgent(p, "en")
	a.Routing.History = []Visit{{Place: "Blue Cafe"}, {Place: "Bank"}}
	a.Routing.Destination.Place = "Bank"

	text := a.StatusText(Labels("en"))
	assert.Contains(t, text, "Name:Taro")
	assert.Contains(t, text, "Destination:Bank")
	assert.Contains(t, text, "stopped by:Blue Cafe")
	assert.Equal(t, 5, a.Routing.MaxCycles)
}
