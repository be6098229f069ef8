package activities

import (
	"github.com/janisto/filif-api/internal/platform/pagination"
	"github.com/janisto/filif-api/internal/service/profile"
)

// ProfileInput addresses one profile.
type ProfileInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
}

// AnswerInput for POST /profiles/{profileId}/challenges/verse
type AnswerInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
	Body      struct {
		AnswerIndex int `json:"answerIndex" minimum:"0" required:"true" doc:"Index of the chosen option" example:"0"`
	}
}

// ArtInput for POST /profiles/{profileId}/art
type ArtInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
	Body      struct {
		ImageRef string `json:"imageRef" minLength:"1" maxLength:"2048" required:"true" doc:"Reference to the uploaded image"`
		Physical bool   `json:"physical"                                                doc:"Photo of a drawing on paper; only these earn the daily reward"`
	}
}

// PageInput lists a paginated collection of one profile.
type PageInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
	pagination.Params
}

// GameWinInput for POST /profiles/{profileId}/games/wins
type GameWinInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
	Body      struct {
		Game        string `json:"game"        minLength:"1" maxLength:"64" required:"true" doc:"Game identifier" example:"memory"`
		RewardCoins int    `json:"rewardCoins" minimum:"1"   maximum:"5"    required:"true" doc:"Coins earned by the win" example:"2"`
	}
}

// RecordingInput for POST /profiles/{profileId}/recordings
type RecordingInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
	Body      struct {
		AudioRef string `json:"audioRef" minLength:"1" maxLength:"2048" required:"true" doc:"Reference to the uploaded audio"`
		VerseRef string `json:"verseRef" minLength:"1" maxLength:"64"   required:"true" doc:"Recited verse" example:"Salmos 23:1"`
	}
}

// PaintingInput for POST /profiles/{profileId}/paintings
type PaintingInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
	Body      struct {
		ImageRef string `json:"imageRef" minLength:"1" maxLength:"2048" required:"true" doc:"Reference to the painting image"`
		Mode     string `json:"mode"     enum:"free,pixel"              required:"true" doc:"Painting tool" example:"pixel"`
	}
}

// VideoInput for POST /profiles/{profileId}/videos/{videoId}/watched
type VideoInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
	VideoID   string `path:"videoId"   doc:"Video identifier"`
}

// FavoriteInput for PUT and DELETE /profiles/{profileId}/favorites/{ref}
type FavoriteInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
	Ref       string `path:"ref"       doc:"Verse reference, URL-encoded" example:"João 3:16"`
}

// TypeInput selects content by age bracket.
type TypeInput struct {
	Type profile.Type `query:"type" enum:"KIDS,TEENS,YOUTH,ADULTS" default:"KIDS" doc:"Age bracket"`
}
