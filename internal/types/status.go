package types

import (
	"encoding/json"
	"fmt"
)

// MeetingStatus is the progress of a single agenda item.
type MeetingStatus string

const (
	StatusNotStarted MeetingStatus = "NOT_STARTED"
	StatusInProgress MeetingStatus = "IN_PROGRESS"
	StatusCompleted  MeetingStatus = "COMPLETED"
)

// MeetingStatuses lists every status in progression order.
func MeetingStatuses() []MeetingStatus {
	return []MeetingStatus{StatusNotStarted, StatusInProgress, StatusCompleted}
}

// Label is the Japanese display name used by the meeting UI.
func (s MeetingStatus) Label() string {
	switch s {
	case StatusNotStarted:
		return "未開始"
	case StatusInProgress:
		return "進行中"
	case StatusCompleted:
		return "完了"
	}
	return string(s)
}

func (s MeetingStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseMeetingStatus accepts the canonical name or the Japanese label.
func ParseMeetingStatus(v string) (MeetingStatus, error) {
	for _, s := range MeetingStatuses() {
		if v == string(s) || v == s.Label() {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown meeting status %q", v)
}

func (s *MeetingStatus) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseMeetingStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// TemplateAction is one of the fixed facilitation prompts a host can ask for.
type TemplateAction string

const (
	ActionHighlightUnresolvedPoints TemplateAction = "HIGHLIGHT_UNRESOLVED_POINTS"
	ActionSuggestRelatedIdeas       TemplateAction = "SUGGEST_RELATED_IDEAS"
	ActionRaiseOffAgendaTopics      TemplateAction = "RAISE_OFF_AGENDA_TOPICS"
)

// TemplateActionValues lists every template action in declaration order.
func TemplateActionValues() []TemplateAction {
	return []TemplateAction{
		ActionHighlightUnresolvedPoints,
		ActionSuggestRelatedIdeas,
		ActionRaiseOffAgendaTopics,
	}
}

// Label is the natural-language instruction the action stands for.
func (a TemplateAction) Label() string {
	switch a {
	case ActionHighlightUnresolvedPoints:
		return "議論しきれていない部分を指摘する"
	case ActionSuggestRelatedIdeas:
		return "関連するアイデアを挙げる"
	case ActionRaiseOffAgendaTopics:
		return "アジェンダ外で話すべきことを挙げる"
	}
	return string(a)
}

func (a TemplateAction) Valid() bool {
	switch a {
	case ActionHighlightUnresolvedPoints, ActionSuggestRelatedIdeas, ActionRaiseOffAgendaTopics:
		return true
	}
	return false
}

// ParseTemplateAction accepts the canonical name or the Japanese label.
func ParseTemplateAction(v string) (TemplateAction, error) {
	for _, a := range TemplateActionValues() {
		if v == string(a) || v == a.Label() {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown template action %q", v)
}

func (a *TemplateAction) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseTemplateAction(v)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
