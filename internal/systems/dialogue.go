package systems

import (
	"time"

	"github.com/depp1024/living/internal/domain"
)

// NextLine выдаёт очередную свою реплику агента. ok=false, когда реплики кончились.
func NextLine(a *domain.Agent) (line domain.DialogueLine, ok bool) {
	t := a.Talk
	if t == nil || !t.IsTalking || t.Line >= len(t.Playback) {
		return domain.DialogueLine{}, false
	}
	line = t.Playback[t.Line]
	t.Line++
	return line, true
}

// LineDelay - пауза после реплики.
func LineDelay() time.Duration {
	return domain.DialogueLineDelayMs * time.Millisecond
}
