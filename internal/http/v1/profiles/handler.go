package profiles

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/filif-api/internal/http/v1/apimodel"
	"github.com/janisto/filif-api/internal/service/activity"
)

// Register registers family profile endpoints.
func Register(api huma.API, svc *activity.Service) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-profile",
		Method:        http.MethodPost,
		Path:          "/profiles",
		Summary:       "Create a family profile",
		Description:   "Adds a profile to the caller's family. New profiles start with streak 1 and the starter unlocks.",
		Tags:          []string{"Profiles"},
		DefaultStatus: http.StatusCreated,
		Security:      apimodel.BearerAuth,
	}, func(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
		res, err := svc.CreateProfile(ctx, apimodel.Caller(ctx), activity.CreateParams{
			Name:   input.Body.Name,
			Avatar: input.Body.Avatar,
			Bio:    input.Body.Bio,
			Type:   input.Body.Type,
		})
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &CreateOutput{
			Location: "/v1/profiles/" + res.Profile.ID,
			Source:   string(res.Source),
			Body:     apimodel.NewProfile(res.Profile),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-profiles",
		Method:      http.MethodGet,
		Path:        "/profiles",
		Summary:     "List family profiles",
		Description: "Returns the caller's profiles, oldest first. X-Data-Source tells whether the remote store or the local cache answered.",
		Tags:        []string{"Profiles"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, _ *ListInput) (*ListOutput, error) {
		res, err := svc.ListProfiles(ctx, apimodel.Caller(ctx))
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &ListOutput{
			Source: string(res.Source),
			Body:   ListData{Profiles: apimodel.NewProfiles(res.Value)},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/profiles/{profileId}",
		Summary:     "Get a family profile",
		Tags:        []string{"Profiles"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *GetInput) (*ProfileOutput, error) {
		res, err := svc.GetProfile(ctx, apimodel.Caller(ctx), input.ProfileID)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &ProfileOutput{Source: string(res.Source), Body: apimodel.NewProfile(res.Value)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-profile",
		Method:      http.MethodPatch,
		Path:        "/profiles/{profileId}",
		Summary:     "Update a family profile",
		Description: "Updates name, avatar or bio. Only provided fields are changed.",
		Tags:        []string{"Profiles"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *UpdateInput) (*ProfileOutput, error) {
		if input.Body.Name == nil && input.Body.Avatar == nil && input.Body.Bio == nil {
			return nil, huma.Error422UnprocessableEntity("at least one field must be provided")
		}
		res, err := svc.UpdateProfile(ctx, apimodel.Caller(ctx), input.ProfileID, activity.UpdateParams{
			Name:   input.Body.Name,
			Avatar: input.Body.Avatar,
			Bio:    input.Body.Bio,
		})
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &ProfileOutput{Source: string(res.Source), Body: apimodel.NewProfile(res.Profile)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-profile",
		Method:        http.MethodDelete,
		Path:          "/profiles/{profileId}",
		Summary:       "Delete a family profile",
		Description:   "Permanently deletes the profile with its gallery and recordings.",
		Tags:          []string{"Profiles"},
		DefaultStatus: http.StatusNoContent,
		Security:      apimodel.BearerAuth,
	}, func(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
		source, err := svc.DeleteProfile(ctx, apimodel.Caller(ctx), input.ProfileID)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &DeleteOutput{Source: string(source)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-profile-progress",
		Method:      http.MethodGet,
		Path:        "/profiles/{profileId}/progress",
		Summary:     "Get profile progress",
		Description: "Returns points, coins, level and whether today's daily rewards were already claimed.",
		Tags:        []string{"Profiles"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *GetInput) (*ProgressOutput, error) {
		p, source, err := svc.Progress(ctx, apimodel.Caller(ctx), input.ProfileID)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &ProgressOutput{
			Source: string(source),
			Body: Progress{
				Points:             p.Profile.Points,
				Coins:              p.Profile.Coins,
				Streak:             p.Profile.Streak,
				Level:              apimodel.NewLevelInfo(p.Level),
				ChallengeDoneToday: p.ChallengeDoneToday,
				ArtDoneToday:       p.ArtDoneToday,
				VideoDoneToday:     p.VideoDoneToday,
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-ranking",
		Method:      http.MethodGet,
		Path:        "/ranking",
		Summary:     "Family ranking",
		Description: "Orders the caller's family by points, highest first.",
		Tags:        []string{"Profiles"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, _ *RankingInput) (*RankingOutput, error) {
		entries, source, err := svc.Ranking(ctx, apimodel.Caller(ctx))
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		out := make([]RankEntry, len(entries))
		for i, e := range entries {
			out[i] = RankEntry{
				Position:  e.Position,
				ProfileID: e.Profile.ID,
				Name:      e.Profile.Name,
				Avatar:    e.Profile.Avatar,
				Points:    e.Profile.Points,
				Level:     apimodel.NewLevelInfo(e.Level),
			}
		}
		return &RankingOutput{Source: string(source), Body: RankingData{Ranking: out}}, nil
	})
}
