package types

import "strings"

// Comment is one utterance in a transcribed audio interval.
type Comment struct {
	StartSec  float64 `json:"start_sec"`
	EndSec    float64 `json:"end_sec"`
	SpeakerID string  `json:"speaker_id"`
	Text      string  `json:"text"`
}

// Transcription is the ordered comment list produced for one audio interval.
type Transcription struct {
	Comments []Comment `json:"comments"`
}

// AudioRef points at a mixed audio object the model can read directly.
type AudioRef struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mime_type"`
}

var spaceRemover = strings.NewReplacer(" ", "", "　", "")

// CleanText returns a copy of c with every ASCII and ideographic space removed from Text.
func (c Comment) CleanText() Comment {
	c.Text = spaceRemover.Replace(c.Text)
	return c
}

// CleanText returns a new Transcription whose comments have been cleaned.
// The receiver's slice is left untouched.
func (t Transcription) CleanText() Transcription {
	out := Transcription{Comments: make([]Comment, len(t.Comments))}
	for i, c := range t.Comments {
		out.Comments[i] = c.CleanText()
	}
	return out
}
