package engine

import (
	"github.com/depp1024/living/internal/domain"
	"github.com/sirupsen/logrus"
)

// Record пишет событие в лог и журнал прогона. Вызывается только из горутины области.
func (a *Area) Record(ev domain.JournalEvent) {
	a.eventSeq++
	ev.Seq = a.eventSeq
	ev.Area = a.ID
	if ev.TimeMs == 0 {
		ev.TimeMs = a.now.Milliseconds()
	}

	entry := a.log.WithFields(logrus.Fields{
		"component": "journal",
		"kind":      ev.Kind,
		"t_ms":      ev.TimeMs,
	})
	if ev.Nickname != "" {
		entry = entry.WithField("agent", ev.Nickname)
	}
	if ev.Partner != "" {
		entry = entry.WithField("partner", ev.Partner)
	}
	if ev.Place != "" {
		entry = entry.WithField("place", ev.Place)
	}

	switch ev.Kind {
	case domain.EventTerminated, domain.EventAreaLoaded, domain.EventAreaCleared:
		entry.Info("Area event")
	default:
		entry.Debug("Area event")
	}

	if a.journal == nil {
		return
	}
	if err := a.journal.Append(ev); err != nil {
		a.log.WithError(err).Warn("Failed to append journal event")
	}
}
