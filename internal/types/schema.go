package types

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// Record schemas are written by hand in the same shape a reflective
// generator would emit: shared records live under $defs and are
// referenced, optional fields are unions with null, enum-typed fields are
// wrapped in a single-element allOf. internal/schema turns them into
// the dialect the model accepts.

func ref(name string) *jsonschema.Schema { return &jsonschema.Schema{Ref: "#/$defs/" + name} }

func nullable(t string) []*jsonschema.Schema {
	return []*jsonschema.Schema{{Type: t}, {Type: "null"}}
}

func rawDefault(v string) json.RawMessage { return json.RawMessage(v) }

func float0() *float64 { v := 0.0; return &v }

func commentSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title: "Comment",
		Type:  "object",
		Properties: map[string]*jsonschema.Schema{
			"start_sec":  {Title: "Start Sec", Type: "number", Minimum: float0(), Description: "開始時間（秒）"},
			"end_sec":    {Title: "End Sec", Type: "number", Minimum: float0(), Description: "終了時間（秒）"},
			"speaker_id": {Title: "Speaker Id", Type: "string", Description: "発話者ID"},
			"text":       {Title: "Text", Type: "string", Description: "テキスト"},
		},
		Required: []string{"start_sec", "end_sec", "speaker_id", "text"},
	}
}

func meetingStatusSchema() *jsonschema.Schema {
	enum := make([]any, 0, 3)
	for _, s := range MeetingStatuses() {
		enum = append(enum, string(s))
	}
	return &jsonschema.Schema{Title: "MeetingStatus", Type: "string", Enum: enum}
}

func templateActionSchema() *jsonschema.Schema {
	enum := make([]any, 0, 3)
	for _, a := range TemplateActionValues() {
		enum = append(enum, string(a))
	}
	return &jsonschema.Schema{Title: "TemplateAction", Type: "string", Enum: enum}
}

func goalSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title: "Goal",
		Type:  "object",
		Properties: map[string]*jsonschema.Schema{
			"done": {
				Title:   "Done",
				Type:    "boolean",
				Default: rawDefault("false"),
				Description: "[内容]\n該当アジェンダで話し合うべき目標の達成状況です。true: 達成済み / false: 未達成\n\n" +
					"[タスク]\n- 与えられたトランスクリプションや該当アジェンダのminutesを参考に、目標が達成されているかどうかを判断してください。",
			},
			"condition": {
				Title: "Condition",
				Type:  "string",
				Description: "[内容]\n- 該当アジェンダで話し合うべき目標の達成条件です。\n\n" +
					"[タスク]\n- プロンプトとして与えられるのでそのままコピーしてください。\n- このconditionに基づいてdoneやresultを更新してください。",
			},
			"result": {
				Title:   "Result",
				AnyOf:   nullable("string"),
				Default: rawDefault("null"),
				Description: "[内容]\n- 目標について実際に話し合われた内容です。\n\n" +
					"[タスク]\n- doneが既にtrueの場合: 記入済みの内容をそのままコピーしてください。\n" +
					"- doneがfalseの場合: 今回のトランスクリプションで話し合われていなければnullのままにし、" +
					"話し合われていれば何が話し合われたか・決定されたかを記入してください。\n" +
					"  例) 達成条件「次回会議の日程を決める」-> result「次回会議は2025/03/01 10:00-11:00に開催する」",
			},
		},
		Required: []string{"condition"},
	}
}

func agendaItemSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title: "AgendaItem",
		Type:  "object",
		Properties: map[string]*jsonschema.Schema{
			"agenda": {
				Title: "Agenda",
				Type:  "string",
				Description: "[内容]\n- 該当アジェンダについて簡潔に説明したものです。会議はこのアジェンダに沿って進行します。\n\n" +
					"[タスク]\n- プロンプトとして与えられるのでそのままコピーしてください。\n- このagendaに基づいてminutesやstatusを更新してください。",
			},
			"minutes": {
				Title:   "Minutes",
				AnyOf:   nullable("string"),
				Default: rawDefault("null"),
				Description: "[内容]\n- トランスクリプションに基づき作成されるmarkdown形式の議事録です。\n\n" +
					"[タスク]\n- トランスクリプションの内容が該当agendaの内容かどうかを判断し、該当すれば議事録として整理して追記してください。\n\n" +
					"[注意]\n- statusが既にCOMPLETEDであればminutesは作成済みです。そのままコピーしてください。\n" +
					"- statusがIN_PROGRESSであれば、既存のminutesに追記が必要な可能性があります。",
			},
			"status": {
				AllOf:   []*jsonschema.Schema{ref("MeetingStatus")},
				Default: rawDefault(`"NOT_STARTED"`),
				Description: "[内容]\n該当アジェンダのステータスです。NOT_STARTED: 未開始 / IN_PROGRESS: 進行中 / COMPLETED: 完了\n\n" +
					"[タスク]\n- NOT_STARTEDの場合: まだ話されていなければNOT_STARTEDのまま、話されていればIN_PROGRESS、完了していればCOMPLETEDに更新してください。\n" +
					"- IN_PROGRESSの場合: 進行中であればIN_PROGRESSのまま、完了していればCOMPLETEDに更新してください。\n" +
					"- COMPLETEDの場合: COMPLETEDのままにしてください。",
			},
			"goals": {
				Title:       "Goals",
				Type:        "array",
				Items:       ref("Goal"),
				Default:     rawDefault("[]"),
				Description: "[内容]\n- 該当アジェンダで達成すべき目標のリストです。",
			},
		},
		Required: []string{"agenda"},
	}
}

// RecordSchema implements schema.Record.
func (Transcription) RecordSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title: "Transcription",
		Type:  "object",
		Defs:  map[string]*jsonschema.Schema{"Comment": commentSchema()},
		Properties: map[string]*jsonschema.Schema{
			"comments": {Title: "Comments", Type: "array", Items: ref("Comment"), Description: "音声データのコメント"},
		},
		Required: []string{"comments"},
	}
}

// RecordSchema implements schema.Record.
func (AgendaItem) RecordSchema() *jsonschema.Schema {
	s := agendaItemSchema()
	s.Defs = map[string]*jsonschema.Schema{
		"Goal":          goalSchema(),
		"MeetingStatus": meetingStatusSchema(),
	}
	return s
}

// RecordSchema implements schema.Record.
func (Agenda) RecordSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title: "Agenda",
		Type:  "object",
		Defs: map[string]*jsonschema.Schema{
			"AgendaItem":    agendaItemSchema(),
			"Goal":          goalSchema(),
			"MeetingStatus": meetingStatusSchema(),
		},
		Properties: map[string]*jsonschema.Schema{
			"items": {
				Title:       "Items",
				Type:        "array",
				Items:       ref("AgendaItem"),
				Default:     rawDefault("[]"),
				Description: "アジェンダのアイテムのリストです。",
			},
			"hand_over": {
				Title:   "Hand Over",
				AnyOf:   nullable("string"),
				Default: rawDefault("null"),
				Description: "[内容]\n- 次インターバルのアジェンダ更新に引き継ぎたい内容です。\n\n" +
					"[タスク]\n- アジェンダがどこまで進行したか、何が話されて何が話されていないか、議事録を作成する上で重要な情報や気をつけるべき情報を記入してください。",
			},
		},
	}
}

// RecordSchema implements schema.Record.
func (HandOver) RecordSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title: "HandOver",
		Type:  "object",
		Properties: map[string]*jsonschema.Schema{
			"hand_over": {Title: "Hand Over", Type: "string", Description: "次回インターバルに引き継ぐべき情報"},
		},
		Required: []string{"hand_over"},
	}
}

// RecordSchema implements schema.Record.
func (TemplateActions) RecordSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title: "TemplateActions",
		Type:  "object",
		Defs:  map[string]*jsonschema.Schema{"TemplateAction": templateActionSchema()},
		Properties: map[string]*jsonschema.Schema{
			"actions": {
				Title:       "Actions",
				Type:        "array",
				Items:       ref("TemplateAction"),
				Default:     rawDefault("[]"),
				Description: "アジェンダの更新におけるアクションのリスト",
			},
		},
	}
}

// RecordSchema implements schema.Record.
func (SuggestedAction) RecordSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title: "SuggestedAction",
		Type:  "object",
		Defs:  map[string]*jsonschema.Schema{"TemplateAction": templateActionSchema()},
		Properties: map[string]*jsonschema.Schema{
			"template_action":  {AllOf: []*jsonschema.Schema{ref("TemplateAction")}, Description: "アクションのテンプレート"},
			"suggested_action": {Title: "Suggested Action", Type: "string", Description: "提案されたアクション"},
		},
		Required: []string{"template_action", "suggested_action"},
	}
}
