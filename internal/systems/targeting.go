package systems

import (
	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/pkg/geo"
)

// FindEncounter ищет ближайшего собеседника в радиусе 100 м.
// Собеседник: активен, не завершил маршрут, не разговаривает, и этот агент с ним ещё не говорил.
// При равных расстояниях побеждает меньший слот ростера.
func FindEncounter(w *domain.WorldContext, a *domain.Agent) *domain.Agent {
	if a.IsTalking() {
		return nil
	}

	var best *domain.Agent
	bestDist := 0.0
	w.Roster.Each(func(other *domain.Agent) {
		if !canTalkTo(a, other) {
			return
		}
		d := geo.Distance(a.GeoPos, other.GeoPos)
		if d > domain.EncounterRadiusM {
			return
		}
		if best == nil || d < bestDist {
			best, bestDist = other, d
		}
	})
	return best
}

func canTalkTo(a, other *domain.Agent) bool {
	return other != a &&
		other.Active &&
		other.State != domain.StateTerminated &&
		!other.IsTalking() &&
		!a.HasTalkedTo(other.Nickname)
}

// StartConversation переводит обоих в разговор (инициатор 0, ответчик 1).
// Каждый получает только свои реплики. found=false, если разговора для пары нет.
func StartConversation(w *domain.WorldContext, initiator, responder *domain.Agent) (found bool) {
	lines, found := w.Dialogue.Lookup(initiator.Nickname, responder.Nickname)

	initiator.StartTalk(domain.RoleInitiator, responder, domain.LinesFor(lines, initiator.Nickname))
	responder.StartTalk(domain.RoleResponder, initiator, domain.LinesFor(lines, responder.Nickname))
	return found
}
