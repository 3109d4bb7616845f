package pipeline

import (
	"fmt"

	"facilitator/internal/types"
)

// restoreItem puts back the caller-owned fields of an agenda item: the
// agenda text and every goal condition, matched by index. A changed goal
// count cannot be repaired and fails the attempt.
func restoreItem(in, out types.AgendaItem) (types.AgendaItem, error) {
	if len(out.Goals) != len(in.Goals) {
		return out, fmt.Errorf("agenda %q: goal count changed from %d to %d", in.Agenda, len(in.Goals), len(out.Goals))
	}
	out.Agenda = in.Agenda
	goals := make([]types.Goal, len(out.Goals))
	for i, g := range out.Goals {
		g.Condition = in.Goals[i].Condition
		goals[i] = g
	}
	out.Goals = goals
	return out, nil
}

func restoreAgenda(in, out types.Agenda) (types.Agenda, error) {
	if len(out.Items) != len(in.Items) {
		return out, fmt.Errorf("item count changed from %d to %d", len(in.Items), len(out.Items))
	}
	items := make([]types.AgendaItem, len(out.Items))
	for i := range out.Items {
		it, err := restoreItem(in.Items[i], out.Items[i])
		if err != nil {
			return out, fmt.Errorf("item %d: %w", i, err)
		}
		items[i] = it
	}
	out.Items = items
	return out, nil
}
