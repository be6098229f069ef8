package activities

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/filif-api/internal/http/v1/apimodel"
	"github.com/janisto/filif-api/internal/platform/pagination"
	"github.com/janisto/filif-api/internal/service/activity"
	"github.com/janisto/filif-api/internal/service/profile"
)

const (
	galleryCursor   = "gallery"
	recordingCursor = "recording"
)

// Register registers daily activity, collection and content endpoints.
func Register(api huma.API, svc *activity.Service, prefix string) {
	registerChallenges(api, svc)
	registerCollections(api, svc, prefix)
	registerContent(api, svc)
}

func result(res activity.Result) *ResultOutput {
	return &ResultOutput{
		Source: string(res.Source),
		Body: apimodel.ProfileResult{
			Profile: apimodel.NewProfile(res.Profile),
			Outcome: apimodel.NewOutcome(res.Outcome),
		},
	}
}

func registerChallenges(api huma.API, svc *activity.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "get-verse-challenge",
		Method:      http.MethodGet,
		Path:        "/profiles/{profileId}/challenges/verse",
		Summary:     "Get today's verse challenge",
		Description: "Returns the verse challenge of the day. The same challenge is served all day.",
		Tags:        []string{"Activities"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *ProfileInput) (*VerseChallengeOutput, error) {
		ch, err := svc.VerseChallenge(ctx, apimodel.Caller(ctx), input.ProfileID)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &VerseChallengeOutput{
			Source: string(ch.Source),
			Body: VerseChallenge{
				Ref:       ch.Challenge.Ref,
				Text:      ch.Challenge.Text,
				Hint:      ch.Challenge.Hint,
				Question:  ch.Challenge.Question,
				Options:   slices.Clone(ch.Challenge.Options),
				Date:      ch.Challenge.Date.String(),
				DoneToday: ch.DoneToday,
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "answer-verse-challenge",
		Method:      http.MethodPost,
		Path:        "/profiles/{profileId}/challenges/verse",
		Summary:     "Answer today's verse challenge",
		Description: "A correct answer earns 1 coin and 100 points once per day. A wrong answer is rejected with 422.",
		Tags:        []string{"Activities"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *AnswerInput) (*ResultOutput, error) {
		res, err := svc.AnswerVerseChallenge(ctx, apimodel.Caller(ctx), input.ProfileID, input.Body.AnswerIndex)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return result(res), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-art-theme",
		Method:      http.MethodGet,
		Path:        "/profiles/{profileId}/art/theme",
		Summary:     "Get today's art mission",
		Tags:        []string{"Activities"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *ProfileInput) (*ArtThemeOutput, error) {
		theme, err := svc.ArtTheme(ctx, apimodel.Caller(ctx), input.ProfileID)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &ArtThemeOutput{
			Source: string(theme.Source),
			Body: ArtTheme{
				Title:       theme.Theme.Title,
				Instruction: theme.Theme.Instruction,
				Icon:        theme.Theme.Icon,
				Date:        theme.Theme.Date.String(),
				DoneToday:   theme.DoneToday,
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "submit-art",
		Method:      http.MethodPost,
		Path:        "/profiles/{profileId}/art",
		Summary:     "Submit an artwork",
		Description: "Adds the artwork to the gallery. The first physical artwork of the day earns 1 coin and 100 points.",
		Tags:        []string{"Activities"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *ArtInput) (*ResultOutput, error) {
		res, err := svc.SubmitArt(ctx, apimodel.Caller(ctx), input.ProfileID, input.Body.ImageRef, input.Body.Physical)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return result(res), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "record-game-win",
		Method:      http.MethodPost,
		Path:        "/profiles/{profileId}/games/wins",
		Summary:     "Record a game win",
		Description: "Credits the reported coins and 20 points per coin.",
		Tags:        []string{"Activities"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *GameWinInput) (*ResultOutput, error) {
		res, err := svc.RecordGameWin(ctx, apimodel.Caller(ctx), input.ProfileID, input.Body.Game, input.Body.RewardCoins)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return result(res), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-video-watched",
		Method:      http.MethodPost,
		Path:        "/profiles/{profileId}/videos/{videoId}/watched",
		Summary:     "Mark a video as watched",
		Description: "Closes today's video gate. Videos carry no reward.",
		Tags:        []string{"Activities"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *VideoInput) (*VideoOutput, error) {
		res, first, err := svc.MarkVideoWatched(ctx, apimodel.Caller(ctx), input.ProfileID, input.VideoID)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &VideoOutput{
			Source: string(res.Source),
			Body:   VideoResult{Profile: apimodel.NewProfile(res.Profile), FirstToday: first},
		}, nil
	})
}

func registerCollections(api huma.API, svc *activity.Service, prefix string) {
	huma.Register(api, huma.Operation{
		OperationID: "list-gallery",
		Method:      http.MethodGet,
		Path:        "/profiles/{profileId}/gallery",
		Summary:     "List submitted artworks",
		Description: "Returns the gallery newest first. Use the cursor from the Link header to navigate between pages.",
		Tags:        []string{"Activities"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *PageInput) (*GalleryOutput, error) {
		res, err := svc.GetProfile(ctx, apimodel.Caller(ctx), input.ProfileID)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		gallery := res.Value.Gallery
		entries := make([]GalleryEntry, len(gallery))
		for i, ref := range gallery {
			entries[len(gallery)-1-i] = GalleryEntry{Number: i + 1, ImageRef: ref}
		}
		page, err := pagination.Page(entries, input.Params, pagination.Listing[GalleryEntry]{
			Kind: galleryCursor,
			ID:   func(e GalleryEntry) string { return strconv.Itoa(e.Number) },
			Path: prefix + "/profiles/" + url.PathEscape(input.ProfileID) + "/gallery",
		})
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &GalleryOutput{
			Link:   page.LinkHeader,
			Source: string(res.Source),
			Body:   GalleryData{Entries: page.Items, Total: page.Total},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "save-recording",
		Method:        http.MethodPost,
		Path:          "/profiles/{profileId}/recordings",
		Summary:       "Save a verse recitation",
		Description:   "Stores the recording and earns 20 points. Recordings are not limited per day.",
		Tags:          []string{"Activities"},
		DefaultStatus: http.StatusCreated,
		Security:      apimodel.BearerAuth,
	}, func(ctx context.Context, input *RecordingInput) (*RecordingCreateOutput, error) {
		res, rec, err := svc.SaveRecording(ctx, apimodel.Caller(ctx), input.ProfileID, input.Body.AudioRef, input.Body.VerseRef)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &RecordingCreateOutput{
			Source: string(res.Source),
			Body: RecordingResult{
				Recording: toRecording(rec),
				Profile:   apimodel.NewProfile(res.Profile),
				Outcome:   apimodel.NewOutcome(res.Outcome),
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-recordings",
		Method:      http.MethodGet,
		Path:        "/profiles/{profileId}/recordings",
		Summary:     "List verse recitations",
		Description: "Returns recordings newest first. Use the cursor from the Link header to navigate between pages.",
		Tags:        []string{"Activities"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *PageInput) (*RecordingsOutput, error) {
		res, err := svc.GetProfile(ctx, apimodel.Caller(ctx), input.ProfileID)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		recs := res.Value.Recordings
		out := make([]Recording, len(recs))
		for i, r := range recs {
			out[len(recs)-1-i] = toRecording(r)
		}
		page, err := pagination.Page(out, input.Params, pagination.Listing[Recording]{
			Kind: recordingCursor,
			ID:   func(r Recording) string { return r.ID },
			Path: prefix + "/profiles/" + url.PathEscape(input.ProfileID) + "/recordings",
		})
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &RecordingsOutput{
			Link:   page.LinkHeader,
			Source: string(res.Source),
			Body:   RecordingsData{Recordings: page.Items, Total: page.Total},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "save-painting",
		Method:      http.MethodPost,
		Path:        "/profiles/{profileId}/paintings",
		Summary:     "Save a painting",
		Description: "Stores a painting made with an unlocked tool: free mode needs coloring_book, pixel mode needs pixel_free.",
		Tags:        []string{"Activities"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *PaintingInput) (*ResultOutput, error) {
		mode := activity.PaintingMode(input.Body.Mode)
		res, err := svc.SavePainting(ctx, apimodel.Caller(ctx), input.ProfileID, input.Body.ImageRef, mode)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return result(res), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-favorite",
		Method:      http.MethodPut,
		Path:        "/profiles/{profileId}/favorites/{ref}",
		Summary:     "Add a favorite verse",
		Tags:        []string{"Activities"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *FavoriteInput) (*ProfileOutput, error) {
		return setFavorite(ctx, svc, input, true)
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-favorite",
		Method:      http.MethodDelete,
		Path:        "/profiles/{profileId}/favorites/{ref}",
		Summary:     "Remove a favorite verse",
		Tags:        []string{"Activities"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *FavoriteInput) (*ProfileOutput, error) {
		return setFavorite(ctx, svc, input, false)
	})
}

func setFavorite(ctx context.Context, svc *activity.Service, input *FavoriteInput, favorite bool) (*ProfileOutput, error) {
	ref := input.Ref
	// The router leaves escaped separators such as %3A in place.
	if unescaped, err := url.PathUnescape(ref); err == nil {
		ref = unescaped
	}
	res, err := svc.SetFavorite(ctx, apimodel.Caller(ctx), input.ProfileID, ref, favorite)
	if err != nil {
		return nil, apimodel.Error(ctx, err)
	}
	return &ProfileOutput{Source: string(res.Source), Body: apimodel.NewProfile(res.Profile)}, nil
}

func registerContent(api huma.API, svc *activity.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "get-devotional",
		Method:      http.MethodGet,
		Path:        "/devotional",
		Summary:     "Get a devotional",
		Description: "Returns a short devotional for the age bracket. Reading it has no effect on coins or points.",
		Tags:        []string{"Content"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *TypeInput) (*DevotionalOutput, error) {
		d, err := svc.Devotional(ctx, input.Type)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &DevotionalOutput{Body: Devotional{
			VerseRef:   d.VerseRef,
			VerseText:  d.VerseText,
			Reflection: d.Reflection,
			Challenge:  d.Challenge,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-quiz",
		Method:      http.MethodGet,
		Path:        "/quiz",
		Summary:     "Get quiz questions",
		Description: "Returns practice questions with their answers. Quizzes are scored on the client and carry no reward.",
		Tags:        []string{"Content"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *TypeInput) (*QuizOutput, error) {
		qs, err := svc.Quiz(ctx, input.Type)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		out := make([]QuizQuestion, len(qs))
		for i, q := range qs {
			out[i] = QuizQuestion{Question: q.Question, Options: q.Options, CorrectIndex: q.CorrectIndex}
		}
		return &QuizOutput{Body: QuizData{Questions: out}}, nil
	})
}

func toRecording(r profile.Recording) Recording {
	return Recording{ID: r.ID, AudioRef: r.Audio, VerseRef: r.Ref, Date: r.Date.String()}
}
