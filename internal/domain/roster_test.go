package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster_StaleHandle(t *testing.T) {
	r := NewRoster()
	a := &Agent{Nickname: "a"}
	b := &Agent{Nickname: "b"}

	ha := r.Add(a)
	hb := r.Add(b)
	assert.NotEqual(t, ha, hb)
	assert.False(t, ha.IsZero())
	assert.Equal(t, 2, r.Len())

	got, ok := r.Get(ha)
	require.True(t, ok)
	assert.Same(t, a, got)

	require.True(t, r.Remove(ha))
	assert.False(t, r.Remove(ha))
	_, ok = r.Get(ha)
	assert.False(t, ok, "removed handle must not resolve")

	c := &Agent{Nickname: "c"}
	hc := r.Add(c)
	assert.Equal(t, ha.Slot(), hc.Slot(), "slot is reused")
	assert.NotEqual(t, ha.Generation(), hc.Generation())
	_, ok = r.Get(ha)
	assert.False(t, ok, "stale handle after reuse")

	var names []string
	r.Each(func(a *Agent) { names = append(names, a.Nickname) })
	assert.Equal(t, []string{"c", "b"}, names)

	r.Clear()
	assert.Equal(t, 0, r.Len())
	_, ok = r.Get(hb)
	assert.False(t, ok)
}

func TestAgentHandle_JSON(t *testing.T) {
	h := PackAgentHandle(3, 7)
	data, err := json.Marshal(h)
	require.NoError(t, err)

	var back AgentHandle
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, h, back)
	assert.Equal(t, "[3:7]", h.String())
}

func TestAgentTalkIndependentTermination(t *testing.T) {
	r := NewRoster()
	a := &Agent{Nickname: "a", Talk: &TalkComponent{TalkedTo: map[string]bool{}}}
	b := &Agent{Nickname: "b", Talk: &TalkComponent{TalkedTo: map[string]bool{}}}
	r.Add(a)
	r.Add(b)

	a.StartTalk(RoleInitiator, b, nil)
	b.StartTalk(RoleResponder, a, nil)
	a.EndTalk()

	assert.False(t, a.IsTalking())
	assert.True(t, b.IsTalking(), "partner state is untouched")
	assert.True(t, a.HasTalkedTo("b"))
	assert.Equal(t, a.Handle, b.Talk.Partner)
}

func TestFetchError(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("load: %w", &FetchError{Source: "overpass", Status: 429, Err: cause})

	assert.ErrorIs(t, err, ErrDataFetch)
	assert.ErrorIs(t, err, cause)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 429, fe.Status)
	assert.Contains(t, err.Error(), "status 429")
}
