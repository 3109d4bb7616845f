package types

import "encoding/json"

// UnmarshalJSON fills the documented defaults: status NOT_STARTED and an
// empty goal list when either is missing or null.
func (it *AgendaItem) UnmarshalJSON(data []byte) error {
	type plain AgendaItem
	out := plain{Status: StatusNotStarted}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	if out.Status == "" {
		out.Status = StatusNotStarted
	}
	if out.Goals == nil {
		out.Goals = []Goal{}
	}
	*it = AgendaItem(out)
	return nil
}

// UnmarshalJSON accepts both "hand_over" and the camelCase "handOver".
func (a *Agenda) UnmarshalJSON(data []byte) error {
	type plain Agenda
	var aux struct {
		plain
		HandOverAlias *string `json:"handOver"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	out := Agenda(aux.plain)
	if out.HandOver == nil {
		out.HandOver = aux.HandOverAlias
	}
	if out.Items == nil {
		out.Items = []AgendaItem{}
	}
	*a = out
	return nil
}

func (h *HandOver) UnmarshalJSON(data []byte) error {
	var aux struct {
		HandOver      *string `json:"hand_over"`
		HandOverAlias *string `json:"handOver"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.HandOver != nil:
		h.HandOver = *aux.HandOver
	case aux.HandOverAlias != nil:
		h.HandOver = *aux.HandOverAlias
	}
	return nil
}

// UnmarshalJSON accepts snake_case and camelCase keys.
func (s *SuggestedAction) UnmarshalJSON(data []byte) error {
	var aux struct {
		TemplateAction       *TemplateAction `json:"template_action"`
		TemplateActionAlias  *TemplateAction `json:"templateAction"`
		SuggestedAction      *string         `json:"suggested_action"`
		SuggestedActionAlias *string         `json:"suggestedAction"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var out SuggestedAction
	if aux.TemplateAction != nil {
		out.TemplateAction = *aux.TemplateAction
	} else if aux.TemplateActionAlias != nil {
		out.TemplateAction = *aux.TemplateActionAlias
	}
	if aux.SuggestedAction != nil {
		out.SuggestedAction = *aux.SuggestedAction
	} else if aux.SuggestedActionAlias != nil {
		out.SuggestedAction = *aux.SuggestedActionAlias
	}
	*s = out
	return nil
}

func (t *TemplateActions) UnmarshalJSON(data []byte) error {
	type plain TemplateActions
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	if out.Actions == nil {
		out.Actions = []TemplateAction{}
	}
	*t = TemplateActions(out)
	return nil
}
