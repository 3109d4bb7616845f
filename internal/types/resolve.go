package types

// goalStatus maps a done-count out of total to a status.
// An item without goals has nothing to complete and stays NOT_STARTED.
func goalStatus(done, total int) MeetingStatus {
	switch {
	case total > 0 && done == total:
		return StatusCompleted
	case done > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// ResolveItemStatus derives the item's status from its goals and returns a new item.
func ResolveItemStatus(item AgendaItem) AgendaItem {
	out := item.Clone()
	done := 0
	for _, g := range out.Goals {
		if g.Done {
			done++
		}
	}
	out.Status = goalStatus(done, len(out.Goals))
	return out
}

// ResolveAgendaStatus applies ResolveItemStatus to every item, keeping order
// and the hand-over note.
func ResolveAgendaStatus(agenda Agenda) Agenda {
	out := Agenda{Items: make([]AgendaItem, len(agenda.Items)), HandOver: cloneString(agenda.HandOver)}
	for i, it := range agenda.Items {
		out.Items[i] = ResolveItemStatus(it)
	}
	return out
}

// Status aggregates item statuses: all COMPLETED is COMPLETED, all
// NOT_STARTED (or no items) is NOT_STARTED, anything else is IN_PROGRESS.
func (a Agenda) Status() MeetingStatus {
	var notStarted, completed int
	for _, it := range a.Items {
		switch it.Status {
		case StatusCompleted:
			completed++
		case StatusNotStarted:
			notStarted++
		case StatusInProgress:
		}
	}
	switch {
	case len(a.Items) == 0 || notStarted == len(a.Items):
		return StatusNotStarted
	case completed == len(a.Items):
		return StatusCompleted
	default:
		return StatusInProgress
	}
}
