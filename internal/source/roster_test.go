package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/depp1024/living/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rosterTSV = "id\tnickname\tname:ja\tname:en\tself-introduction:en\ta-little-word:en\ticon\tcolor\trouting-pattern\trouting-comment\n" +
	"1\ttaro\t太郎\tTaro\tI like walking.\tHi!\ttaro.png\t#ff0000\tfood | finance bank\tcafe:Coffee time|cafe:Another coffee|bank:Money\n" +
	"2\t\t\tNobody\t\t\t\t\tfood\t\n" +
	"3\thanako\t花子\tHanako\t\t\t\t\thealth\t\n"

func TestParseRoster(t *testing.T) {
	profiles, err := ParseRoster(strings.NewReader(rosterTSV))
	require.NoError(t, err)
	require.Len(t, profiles, 2, "row without nickname is skipped")

	taro := profiles[0]
	assert.Equal(t, "1", taro.ID)
	assert.Equal(t, "taro", taro.Nickname)
	assert.Equal(t, "太郎", taro.Names["ja"])
	assert.Equal(t, "I like walking.", taro.Intros["en"])
	assert.Equal(t, "Hi!", taro.Words["en"])
	assert.Equal(t, "taro.png", taro.Icon)
	assert.Equal(t, [][]string{{"food"}, {"finance", "bank"}}, taro.Patterns)
	assert.Equal(t, []string{"Coffee time", "Another coffee"}, taro.Comments["cafe"])

	texts := taro.Texts("ja")
	assert.Equal(t, "太郎", texts.Name)
	assert.Equal(t, "Hi!", texts.Word, "falls back to en")

	assert.Equal(t, "hanako", profiles[1].Nickname)
	assert.Empty(t, profiles[1].Comments)
}

func TestParseRosterCSV(t *testing.T) {
	data := "id,nickname,name:en,routing-pattern\n7,ken,Ken,\"restaurant cafe|school\"\n"
	profiles, err := ParseRoster(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, [][]string{{"restaurant", "cafe"}, {"school"}}, profiles[0].Patterns)
}

func TestParseRosterErrors(t *testing.T) {
	_, err := ParseRoster(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ParseRoster(strings.NewReader("id\tname:en\n1\tX\n"))
	assert.ErrorIs(t, err, domain.ErrMissingTag)
}

func TestRosterTableSources(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "people.tsv")
		require.NoError(t, os.WriteFile(path, []byte(rosterTSV), 0o644))

		profiles, err := NewRosterTable(path, time.Second).Profiles(context.Background())
		require.NoError(t, err)
		assert.Len(t, profiles, 2)
	})

	t.Run("url", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(rosterTSV))
		}))
		defer srv.Close()

		profiles, err := NewRosterTable(srv.URL+"/export?format=tsv", time.Second).Profiles(context.Background())
		require.NoError(t, err)
		assert.Len(t, profiles, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewRosterTable(filepath.Join(t.TempDir(), "nope.tsv"), time.Second).Profiles(context.Background())
		assert.ErrorIs(t, err, domain.ErrDataFetch)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusGone)
		}))
		defer srv.Close()

		_, err := NewRosterTable(srv.URL, time.Second).Profiles(context.Background())
		var fe *domain.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, http.StatusGone, fe.Status)
	})
}
