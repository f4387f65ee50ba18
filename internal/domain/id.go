package domain

import (
	"fmt"
	"strconv"
)

// AgentHandle - упакованный идентификатор слота ростера (Generation + Slot).
// Нулевой хендл никогда не выдаётся.
type AgentHandle uint64

const (
	bitsSlot        = 32
	shiftGeneration = bitsSlot
	maskSlot        = (1 << bitsSlot) - 1
)

// PackAgentHandle создает хендл из слота и поколения
func PackAgentHandle(slot, generation uint32) AgentHandle {
	return AgentHandle(uint64(generation)<<shiftGeneration | uint64(slot)&maskSlot)
}

func (h AgentHandle) Slot() uint32 {
	return uint32(h & maskSlot)
}

func (h AgentHandle) Generation() uint32 {
	return uint32(h >> shiftGeneration)
}

func (h AgentHandle) IsZero() bool {
	return h == 0
}

// Key - десятичная форма (для URL и DTO).
func (h AgentHandle) Key() string {
	return strconv.FormatUint(uint64(h), 10)
}

// MarshalJSON сериализует хендл в строку, так как JS теряет точность для больших int64
func (h AgentHandle) MarshalJSON() ([]byte, error) {
	return []byte(`"` + h.Key() + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON
func (h *AgentHandle) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	v, err := ParseAgentHandle(string(data))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// ParseAgentHandle читает хендл из десятичной строки (как он приходит в URL)
func ParseAgentHandle(s string) (AgentHandle, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse agent handle %q: %w", s, err)
	}
	return AgentHandle(v), nil
}

// String для логов: [slot:gen]
func (h AgentHandle) String() string {
	return fmt.Sprintf("[%d:%d]", h.Slot(), h.Generation())
}
