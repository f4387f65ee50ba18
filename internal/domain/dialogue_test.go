package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTranscript(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []DialogueLine
	}{
		{
			name: "brackets",
			in:   "taro「こんにちは」hanako「やあ」",
			want: []DialogueLine{{Speaker: "taro", Text: "こんにちは"}, {Speaker: "hanako", Text: "やあ"}},
		},
		{
			name: "colon with pipes",
			in:   "taro: hello | hanako: hi there",
			want: []DialogueLine{{Speaker: "taro", Text: "hello"}, {Speaker: "hanako", Text: "hi there"}},
		},
		{
			name: "segment without speaker dropped",
			in:   "taro: hello\nnoise",
			want: []DialogueLine{{Speaker: "taro", Text: "hello"}},
		},
		{name: "empty", in: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTranscript(tt.in))
		})
	}
}

func TestDialogueTable_LookupSymmetric(t *testing.T) {
	table := NewDialogueTable()
	lines := []DialogueLine{{Speaker: "a", Text: "1"}, {Speaker: "b", Text: "2"}}
	table.Add("a", "b", lines)

	got, ok := table.Lookup("a", "b")
	require.True(t, ok)
	assert.Equal(t, lines, got)

	got, ok = table.Lookup("b", "a")
	require.True(t, ok)
	assert.Equal(t, lines, got)

	_, ok = table.Lookup("a", "c")
	assert.False(t, ok)
	assert.Equal(t, 1, table.Len())

	assert.Equal(t, []DialogueLine{{Speaker: "b", Text: "2"}}, LinesFor(lines, "b"))
}
