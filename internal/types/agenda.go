package types

// Goal is a completion condition for one agenda item.
type Goal struct {
	Done      bool    `json:"done"`
	Condition string  `json:"condition"`
	Result    *string `json:"result"`
}

// AgendaItem is one topic of the meeting with its running minutes.
// Agenda and every goal's Condition are owned by the caller and must
// survive model updates unchanged.
type AgendaItem struct {
	Agenda  string        `json:"agenda"`
	Minutes *string       `json:"minutes"`
	Status  MeetingStatus `json:"status"`
	Goals   []Goal        `json:"goals"`
}

// Agenda is the full meeting record exchanged with the client on every call.
type Agenda struct {
	Items    []AgendaItem `json:"items"`
	HandOver *string      `json:"hand_over"`
}

// HandOver carries what the next interval's update should know.
type HandOver struct {
	HandOver string `json:"hand_over"`
}

// TemplateActions is the catalogue returned to clients.
type TemplateActions struct {
	Actions []TemplateAction `json:"actions"`
}

// SuggestedAction pairs a template with the model's advice for it.
type SuggestedAction struct {
	TemplateAction  TemplateAction `json:"template_action"`
	SuggestedAction string         `json:"suggested_action"`
}

// ResolveTemplateActions returns every available template action.
func ResolveTemplateActions() TemplateActions {
	return TemplateActions{Actions: TemplateActionValues()}
}

// Clone returns a deep copy so callers can hand the item to another goroutine.
func (it AgendaItem) Clone() AgendaItem {
	out := it
	out.Minutes = cloneString(it.Minutes)
	out.Goals = make([]Goal, len(it.Goals))
	for i, g := range it.Goals {
		g.Result = cloneString(g.Result)
		out.Goals[i] = g
	}
	return out
}

// Clone returns a deep copy of the agenda.
func (a Agenda) Clone() Agenda {
	out := Agenda{Items: make([]AgendaItem, len(a.Items)), HandOver: cloneString(a.HandOver)}
	for i, it := range a.Items {
		out.Items[i] = it.Clone()
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr is a small helper for optional text fields.
func StringPtr(s string) *string { return &s }
