package activities

import (
	"github.com/janisto/filif-api/internal/http/v1/apimodel"
)

// VerseChallenge is today's challenge. The correct answer is never sent.
type VerseChallenge struct {
	Ref       string   `json:"ref"       example:"Salmos 23:1"`
	Text      string   `json:"text"      example:"O Senhor é o meu pastor; nada me faltará."`
	Hint      string   `json:"hint"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Date      string   `json:"date"      example:"2025-03-01"`
	DoneToday bool     `json:"doneToday" doc:"Reward already claimed today"`
}

// VerseChallengeOutput for GET /profiles/{profileId}/challenges/verse
type VerseChallengeOutput struct {
	Source string `header:"X-Data-Source" doc:"Store that served the request"`
	Body   VerseChallenge
}

// ArtTheme is today's art mission.
type ArtTheme struct {
	Title       string `json:"title"       example:"A Arca de Noé"`
	Instruction string `json:"instruction"`
	Icon        string `json:"icon"        example:"🚢"`
	Date        string `json:"date"        example:"2025-03-01"`
	DoneToday   bool   `json:"doneToday"   doc:"Reward already claimed today"`
}

// ArtThemeOutput for GET /profiles/{profileId}/art/theme
type ArtThemeOutput struct {
	Source string `header:"X-Data-Source" doc:"Store that served the request"`
	Body   ArtTheme
}

// ResultOutput is returned by operations that change a profile.
type ResultOutput struct {
	Source string `header:"X-Data-Source" doc:"Store that served the request"`
	Body   apimodel.ProfileResult
}

// GalleryEntry is one submitted artwork. Number counts submissions from the first one.
type GalleryEntry struct {
	Number   int    `json:"number"   example:"3"`
	ImageRef string `json:"imageRef"`
}

// GalleryData is the body of GET /profiles/{profileId}/gallery.
type GalleryData struct {
	Entries []GalleryEntry `json:"entries" doc:"Artworks, newest first"`
	Total   int            `json:"total"`
}

// GalleryOutput for GET /profiles/{profileId}/gallery
type GalleryOutput struct {
	Link   string `header:"Link"          doc:"RFC 8288 pagination links"`
	Source string `header:"X-Data-Source" doc:"Store that served the request"`
	Body   GalleryData
}

// Recording is a saved recitation.
type Recording struct {
	ID       string `json:"id"`
	AudioRef string `json:"audioRef"`
	VerseRef string `json:"verseRef" example:"Salmos 23:1"`
	Date     string `json:"date"     example:"2025-03-01"`
}

// RecordingResult is the body of POST /profiles/{profileId}/recordings.
type RecordingResult struct {
	Recording Recording        `json:"recording"`
	Profile   apimodel.Profile `json:"profile"`
	Outcome   apimodel.Outcome `json:"outcome"`
}

// RecordingCreateOutput for POST /profiles/{profileId}/recordings (201 Created)
type RecordingCreateOutput struct {
	Source string `header:"X-Data-Source" doc:"Store that served the request"`
	Body   RecordingResult
}

// RecordingsData is the body of GET /profiles/{profileId}/recordings.
type RecordingsData struct {
	Recordings []Recording `json:"recordings" doc:"Recordings, newest first"`
	Total      int         `json:"total"`
}

// RecordingsOutput for GET /profiles/{profileId}/recordings
type RecordingsOutput struct {
	Link   string `header:"Link"          doc:"RFC 8288 pagination links"`
	Source string `header:"X-Data-Source" doc:"Store that served the request"`
	Body   RecordingsData
}

// VideoResult is the body of POST /profiles/{profileId}/videos/{videoId}/watched.
type VideoResult struct {
	Profile    apimodel.Profile `json:"profile"`
	FirstToday bool             `json:"firstToday" doc:"First video watched today"`
}

// VideoOutput for POST /profiles/{profileId}/videos/{videoId}/watched
type VideoOutput struct {
	Source string `header:"X-Data-Source" doc:"Store that served the request"`
	Body   VideoResult
}

// ProfileOutput returns the updated profile.
type ProfileOutput struct {
	Source string `header:"X-Data-Source" doc:"Store that served the request"`
	Body   apimodel.Profile
}

// Devotional is a short daily reading.
type Devotional struct {
	VerseRef   string `json:"verseRef"   example:"Salmos 23:1"`
	VerseText  string `json:"verseText"`
	Reflection string `json:"reflection"`
	Challenge  string `json:"challenge"`
}

// DevotionalOutput for GET /devotional
type DevotionalOutput struct {
	Body Devotional
}

// QuizQuestion is a multiple-choice question. Scoring happens on the client.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// QuizData is the body of GET /quiz.
type QuizData struct {
	Questions []QuizQuestion `json:"questions"`
}

// QuizOutput for GET /quiz
type QuizOutput struct {
	Body QuizData
}
