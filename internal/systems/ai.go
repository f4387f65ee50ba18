package systems

import (
	"fmt"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/pkg/logger"
	"github.com/depp1024/living/pkg/utils"
	"github.com/sirupsen/logrus"
)

// GoalChoice - результат выбора следующей цели.
type GoalChoice struct {
	Goal        domain.Position
	Destination domain.Destination
	Comment     string
	// Collapsed: до цели нет пути, агент остаётся на месте. Destination - то, что было выбрано.
	Collapsed bool
}

// SelectGoal выбирает следующую цель агента и записывает её в историю.
//
// Кандидаты - до 1000 ближайших заведений. Отбрасываются: текущая клетка (расстояние 0),
// места из истории, категории не из текущей группы. Побеждает ближайший.
// Если никого не осталось - случайная проходимая клетка.
func SelectGoal(w *domain.WorldContext, a *domain.Agent) GoalChoice {
	choice := chooseGoal(w, a)

	if err := checkReachable(w.Grid, a.Pos, choice.Goal); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"area":  w.ID,
			"agent": a.Nickname,
			"from":  a.Pos,
			"goal":  choice.Goal,
		}).Debugf("Goal unreachable, staying: %v", err)
		choice.Goal = a.Pos
		choice.Collapsed = true
	}

	applyGoal(a, choice)
	return choice
}

func chooseGoal(w *domain.WorldContext, a *domain.Agent) GoalChoice {
	categories := domain.ExpandCategories(a.Routing.CurrentCategories())
	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	point := []float64{float64(a.Pos.X), float64(a.Pos.Y)}
	for _, n := range w.Annotations.Nearest(point, domain.GoalCandidates) {
		if n.Distance == 0 {
			continue
		}
		place := n.Item.Tags.PlaceName(w.Languages)
		if a.Routing.Visited(place) {
			continue
		}
		amenity := n.Item.Tags.Amenity()
		if !wanted[amenity] {
			continue
		}
		return GoalChoice{
			Goal:        n.Item.Pos(),
			Destination: domain.Destination{Place: place, Amenity: amenity},
			Comment:     pickComment(w, a, amenity),
		}
	}

	// Подходящих заведений нет: идём куда-нибудь.
	cells := w.Grid.WalkableCells()
	if idx := utils.RandomIndex(w.Rng, len(cells)); idx >= 0 {
		return GoalChoice{Goal: cells[idx]}
	}
	return GoalChoice{Goal: a.Pos}
}

func checkReachable(g *domain.NavigableGrid, from, to domain.Position) error {
	if PathExists(g, from, to) {
		return nil
	}
	return fmt.Errorf("%v -> %v: %w", from, to, domain.ErrNoPath)
}

// pickComment - случайная реплика из пула категории, пусто если пула нет.
func pickComment(w *domain.WorldContext, a *domain.Agent, amenity string) string {
	pool := a.Routing.Comments[amenity]
	if idx := utils.RandomIndex(w.Rng, len(pool)); idx >= 0 {
		return pool[idx]
	}
	return ""
}

// applyGoal: недостижимое место всё равно попадает в историю, чтобы не выбирать его снова.
func applyGoal(a *domain.Agent, c GoalChoice) {
	a.Routing.Goal = c.Goal
	a.Routing.Destination = c.Destination
	if c.Collapsed {
		a.Routing.Destination = domain.Destination{}
	}
	a.Routing.History = append(a.Routing.History, domain.Visit{Place: c.Destination.Place, Comment: c.Comment})
}
