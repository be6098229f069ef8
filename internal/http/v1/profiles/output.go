package profiles

import "github.com/janisto/filif-api/internal/http/v1/apimodel"

// CreateOutput for POST /profiles (201 Created)
type CreateOutput struct {
	Location string `header:"Location"      doc:"URL of the created profile"`
	Source   string `header:"X-Data-Source" doc:"Store that served the request" enum:"remote,fallback"`
	Body     apimodel.Profile
}

// ListData is the body of GET /profiles.
type ListData struct {
	Profiles []apimodel.Profile `json:"profiles" doc:"Profiles of the family, oldest first"`
}

// ListOutput for GET /profiles
type ListOutput struct {
	Source string `header:"X-Data-Source" doc:"Store that served the request" enum:"remote,fallback"`
	Body   ListData
}

// ProfileOutput for GET and PATCH /profiles/{profileId}
type ProfileOutput struct {
	Source string `header:"X-Data-Source" doc:"Store that served the request" enum:"remote,fallback"`
	Body   apimodel.Profile
}

// DeleteOutput for DELETE /profiles/{profileId} (204 No Content)
type DeleteOutput struct {
	Source string `header:"X-Data-Source" doc:"Store that served the request" enum:"remote,fallback"`
}

// Progress is the body of GET /profiles/{profileId}/progress.
type Progress struct {
	Points             int                `json:"points"             example:"1200"`
	Coins              int                `json:"coins"              example:"7"`
	Streak             int                `json:"streak"             example:"1"`
	Level              apimodel.LevelInfo `json:"level"`
	ChallengeDoneToday bool               `json:"challengeDoneToday" doc:"Verse challenge already rewarded today"`
	ArtDoneToday       bool               `json:"artDoneToday"       doc:"Art mission already rewarded today"`
	VideoDoneToday     bool               `json:"videoDoneToday"     doc:"A video was watched today"`
}

// ProgressOutput for GET /profiles/{profileId}/progress
type ProgressOutput struct {
	Source string `header:"X-Data-Source" doc:"Store that served the request" enum:"remote,fallback"`
	Body   Progress
}

// RankEntry is one row of the family ranking.
type RankEntry struct {
	Position  int                `json:"position"  example:"1"`
	ProfileID string             `json:"profileId"`
	Name      string             `json:"name"      example:"Ana"`
	Avatar    string             `json:"avatar"`
	Points    int                `json:"points"    example:"1200"`
	Level     apimodel.LevelInfo `json:"level"`
}

// RankingData is the body of GET /ranking.
type RankingData struct {
	Ranking []RankEntry `json:"ranking"`
}

// RankingOutput for GET /ranking
type RankingOutput struct {
	Source string `header:"X-Data-Source" doc:"Store that served the request" enum:"remote,fallback"`
	Body   RankingData
}
