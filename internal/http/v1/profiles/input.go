package profiles

import "github.com/janisto/filif-api/internal/service/profile"

// CreateInput for POST /profiles
type CreateInput struct {
	Body struct {
		Name   string       `json:"name"             minLength:"1" maxLength:"40"  required:"true" doc:"Display name" example:"Ana"`
		Avatar string       `json:"avatar,omitempty"               maxLength:"64"                  doc:"Avatar identifier or emoji" example:"👧"`
		Bio    string       `json:"bio,omitempty"                  maxLength:"280"                 doc:"Short biography"`
		Type   profile.Type `json:"type"             enum:"KIDS,TEENS,YOUTH,ADULTS" required:"true" doc:"Age bracket" example:"KIDS"`
	}
}

// ListInput for GET /profiles (no parameters)
type ListInput struct{}

// GetInput for GET /profiles/{profileId}
type GetInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
}

// UpdateInput for PATCH /profiles/{profileId}
type UpdateInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
	Body      struct {
		Name   *string `json:"name,omitempty"   minLength:"1" maxLength:"40" doc:"Display name" example:"Ana"`
		Avatar *string `json:"avatar,omitempty" maxLength:"64"               doc:"Avatar identifier or emoji"`
		Bio    *string `json:"bio,omitempty"    maxLength:"280"              doc:"Short biography"`
	}
}

// DeleteInput for DELETE /profiles/{profileId}
type DeleteInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
}

// RankingInput for GET /ranking (no parameters)
type RankingInput struct{}
