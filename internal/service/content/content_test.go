package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	applog "github.com/janisto/filif-api/internal/platform/logging"
	"github.com/janisto/filif-api/internal/platform/timeutil"
	"github.com/janisto/filif-api/internal/service/profile"
)

// fakeClient answers every Generate call with a fixed body or error.
type fakeClient struct {
	body     string
	err      error
	requests []*api.GenerateRequest
}

func (f *fakeClient) Generate(_ context.Context, req *api.GenerateRequest, fn api.GenerateResponseFunc) error {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return f.err
	}
	// Split the body across two chunks to exercise accumulation.
	mid := len(f.body) / 2
	if err := fn(api.GenerateResponse{Response: f.body[:mid]}); err != nil {
		return err
	}
	return fn(api.GenerateResponse{Response: f.body[mid:], Done: true})
}

func TestStaticGeneratorIsDeterministicPerDay(t *testing.T) {
	g := NewStaticGenerator(nil)
	ctx := context.Background()

	a1, _ := g.ArtTheme(ctx, profile.TypeKids, "2025-03-01")
	a2, _ := g.ArtTheme(ctx, profile.TypeKids, "2025-03-01")
	if *a1 != *a2 {
		t.Fatalf("expected same theme for same day, got %+v and %+v", a1, a2)
	}
	b, _ := g.ArtTheme(ctx, profile.TypeKids, "2025-03-02")
	if *a1 == *b {
		t.Fatal("expected consecutive days to rotate themes")
	}
}

func TestStaticGeneratorUnsetDayUsesFirstItem(t *testing.T) {
	g := NewStaticGenerator(nil)
	a, _ := g.ArtTheme(context.Background(), profile.TypeKids, "")
	if a.Title != "A Arca de Noé" {
		t.Fatalf("expected Noah's ark theme, got %q", a.Title)
	}
	v, _ := g.VerseChallenge(context.Background(), profile.TypeKids, "")
	if v.Ref != "Salmos 23:1" || v.Options[v.CorrectIndex] != "Nada" {
		t.Fatalf("unexpected fallback challenge %+v", v)
	}
}

func TestStaticContentIsValid(t *testing.T) {
	for i := range artThemes {
		if err := artThemes[i].validate(); err != nil {
			t.Errorf("art theme %d: %v", i, err)
		}
	}
	for i := range verseChallenges {
		if err := verseChallenges[i].validate(); err != nil {
			t.Errorf("verse challenge %d: %v", i, err)
		}
	}
	for i := range quizzes {
		if err := quizzes[i].validate(); err != nil {
			t.Errorf("quiz %d: %v", i, err)
		}
	}
	for _, list := range [][]Devotional{devotionals, kidsDevotionals} {
		for i := range list {
			if err := list[i].validate(); err != nil {
				t.Errorf("devotional %d: %v", i, err)
			}
		}
	}
}

func TestStaticVerseChallengeOptionsAreCopied(t *testing.T) {
	g := NewStaticGenerator(nil)
	v, _ := g.VerseChallenge(context.Background(), profile.TypeKids, "")
	v.Options[0] = "changed"
	if verseChallenges[0].Options[0] != "Nada" {
		t.Fatal("caller mutated the built-in challenge")
	}
}

func TestStaticDevotionalDependsOnType(t *testing.T) {
	clock := timeutil.FixedClock{T: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	g := NewStaticGenerator(clock)
	kids, _ := g.Devotional(context.Background(), profile.TypeKids)
	adults, _ := g.Devotional(context.Background(), profile.TypeAdults)
	if kids.VerseRef == adults.VerseRef && kids.Challenge == adults.Challenge {
		t.Fatal("expected different devotionals for kids and adults")
	}
}

func TestStaticQuizHasThreeQuestions(t *testing.T) {
	q, err := NewStaticGenerator(nil).Quiz(context.Background(), profile.TypeTeens)
	if err != nil || len(q) != 3 {
		t.Fatalf("expected 3 questions, got %d, %v", len(q), err)
	}
}

func TestOllamaVerseChallenge(t *testing.T) {
	body := `{"ref":"João 3:16","text":"Porque Deus amou o mundo","hint":"amor","verificationQuestion":"Quem Deus amou?","options":["O mundo","Ninguém"],"correctIndex":0}`
	client := &fakeClient{body: body}
	g := NewOllamaGenerator(client, WithModel("gemma3"))

	v, err := g.VerseChallenge(context.Background(), profile.TypeKids, "2025-03-01")
	if err != nil {
		t.Fatalf("VerseChallenge: %v", err)
	}
	if v.Ref != "João 3:16" || v.Question != "Quem Deus amou?" || v.CorrectIndex != 0 {
		t.Fatalf("unexpected challenge %+v", v)
	}

	req := client.requests[0]
	if req.Model != "gemma3" {
		t.Errorf("expected model gemma3, got %s", req.Model)
	}
	if req.Stream == nil || *req.Stream {
		t.Error("expected non-streaming request")
	}
	if string(req.Format) != `"json"` {
		t.Errorf("expected json format, got %s", req.Format)
	}
	if !strings.Contains(req.Prompt, "crianças") {
		t.Errorf("expected kids audience in prompt, got %q", req.Prompt)
	}
}

func TestOllamaRejectsOutOfRangeAnswer(t *testing.T) {
	body := `{"ref":"a","text":"b","hint":"c","verificationQuestion":"d","options":["x","y"],"correctIndex":5}`
	g := NewOllamaGenerator(&fakeClient{body: body})

	_, err := g.VerseChallenge(context.Background(), profile.TypeKids, "2025-03-01")
	if !errors.Is(err, ErrInvalidContent) {
		t.Fatalf("expected ErrInvalidContent, got %v", err)
	}
}

func TestOllamaRejectsMalformedJSON(t *testing.T) {
	g := NewOllamaGenerator(&fakeClient{body: `not json`})

	_, err := g.ArtTheme(context.Background(), profile.TypeKids, "2025-03-01")
	if !errors.Is(err, ErrInvalidContent) {
		t.Fatalf("expected ErrInvalidContent, got %v", err)
	}
}

func TestOllamaTransportErrorIsUnavailable(t *testing.T) {
	g := NewOllamaGenerator(&fakeClient{err: errors.New("connection refused")})

	_, err := g.Devotional(context.Background(), profile.TypeAdults)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestOllamaQuiz(t *testing.T) {
	body := `{"questions":[{"question":"Quem construiu a arca?","options":["Noé","Moisés"],"correctIndex":0}]}`
	q, err := NewOllamaGenerator(&fakeClient{body: body}).Quiz(context.Background(), profile.TypeYouth)
	if err != nil || len(q) != 1 || q[0].Options[0] != "Noé" {
		t.Fatalf("unexpected quiz %+v, %v", q, err)
	}

	_, err = NewOllamaGenerator(&fakeClient{body: `{"questions":[]}`}).Quiz(context.Background(), profile.TypeYouth)
	if !errors.Is(err, ErrInvalidContent) {
		t.Fatalf("expected ErrInvalidContent for empty quiz, got %v", err)
	}
}

func TestOllamaOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req api.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		theme := `{"title":"Davi e Golias","instruction":"Desenhe Davi","icon":"🪨"}`
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.GenerateResponse{Model: req.Model, Response: theme, Done: true})
	}))
	defer srv.Close()

	base, _ := url.Parse(srv.URL)
	g := NewOllamaGenerator(api.NewClient(base, srv.Client()), WithTimeout(5*time.Second))

	a, err := g.ArtTheme(context.Background(), profile.TypeTeens, "2025-03-01")
	if err != nil {
		t.Fatalf("ArtTheme: %v", err)
	}
	if a.Title != "Davi e Golias" {
		t.Fatalf("unexpected theme %+v", a)
	}
}

func TestFallbackUsesSecondaryAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ctx := applog.ContextWithLogger(context.Background(), zap.New(core))

	f := Fallback{
		Primary:   NewOllamaGenerator(&fakeClient{err: errors.New("down")}),
		Secondary: NewStaticGenerator(nil),
	}
	a, err := f.ArtTheme(ctx, profile.TypeKids, "")
	if err != nil {
		t.Fatalf("ArtTheme: %v", err)
	}
	if a.Title != "A Arca de Noé" {
		t.Fatalf("expected static theme, got %q", a.Title)
	}
	entries := logs.FilterMessage("content generation failed, using fallback").All()
	if len(entries) != 1 || entries[0].ContextMap()["kind"] != "art_theme" {
		t.Fatalf("expected one art_theme warning, got %+v", entries)
	}
}

func TestFallbackPrefersPrimary(t *testing.T) {
	body := `{"verseRef":"Mateus 5:16","verseText":"luz","reflection":"r","challenge":"c"}`
	f := Fallback{Primary: NewOllamaGenerator(&fakeClient{body: body}), Secondary: NewStaticGenerator(nil)}

	d, err := f.Devotional(context.Background(), profile.TypeAdults)
	if err != nil || d.VerseText != "luz" {
		t.Fatalf("expected primary devotional, got %+v, %v", d, err)
	}
}
