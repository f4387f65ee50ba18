package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()

	os.Exit(m.Run())
}

func TestJournalRoundTrip(t *testing.T) {
	svc, err := NewJournalService(t.TempDir() + "/journals")
	require.NoError(t, err)

	header := domain.JournalHeader{Area: "a1", Seed: 42, Timestamp: 1700000000, Lat: 35.6, Lng: 139.7}
	w, err := svc.Open(header)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(w.Path(), ".jsonl.zst"))

	events := []domain.JournalEvent{
		{Seq: 1, TimeMs: 0, Area: "a1", Kind: domain.EventAreaLoaded},
		{Seq: 2, TimeMs: 1500, Area: "a1", Kind: domain.EventArrival, Agent: domain.PackAgentHandle(0, 1), Nickname: "taro", Place: "Cafe A"},
		{Seq: 3, TimeMs: 2000, Area: "a1", Kind: domain.EventTalkStart, Agent: domain.PackAgentHandle(1, 1), Nickname: "hanako", Partner: "taro"},
	}
	for _, ev := range events {
		require.NoError(t, w.Append(ev))
	}
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Append(events[0]), os.ErrClosed)

	session, err := svc.Load(w.Path())
	require.NoError(t, err)
	assert.Equal(t, Version1, session.Header.Version)
	assert.Equal(t, "a1", session.Header.Area)
	assert.Equal(t, int64(42), session.Header.Seed)
	assert.Equal(t, events, session.Events)
}

func TestReadJournalRejectsBadHeader(t *testing.T) {
	_, err := readJournal(strings.NewReader(""))
	assert.Error(t, err)

	_, err = readJournal(strings.NewReader(`{"magic":"XXXX","version":1}` + "\n"))
	assert.ErrorContains(t, err, "invalid magic")

	_, err = readJournal(strings.NewReader(`{"magic":"LVJR","version":9}` + "\n"))
	assert.ErrorContains(t, err, "unsupported version")

	_, err = readJournal(strings.NewReader(`{"magic":"LVJR","version":1}` + "\nnot json\n"))
	assert.ErrorContains(t, err, "line 2")
}
