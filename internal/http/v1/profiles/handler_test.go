package profiles

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/filif-api/internal/http/v1/apimodel"
	"github.com/janisto/filif-api/internal/platform/auth"
	applog "github.com/janisto/filif-api/internal/platform/logging"
	appmiddleware "github.com/janisto/filif-api/internal/platform/middleware"
	"github.com/janisto/filif-api/internal/platform/respond"
	"github.com/janisto/filif-api/internal/platform/timeutil"
	"github.com/janisto/filif-api/internal/service/activity"
	"github.com/janisto/filif-api/internal/service/content"
	"github.com/janisto/filif-api/internal/service/profile"
	"github.com/janisto/filif-api/internal/service/session"
	"github.com/janisto/filif-api/internal/service/shop"
)

var otherUser = &auth.User{UID: "other-user-456", Email: "other@example.com"}

func newTestRouter(t *testing.T, remote profile.Store) chi.Router {
	t.Helper()
	clock := timeutil.FixedClock{T: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	n := 0
	svc := activity.NewService(
		session.NewResolver(remote, profile.NewMemoryStore()),
		shop.NewCatalog(shop.NewMemoryPrices()),
		content.NewStaticGenerator(clock),
		activity.WithClock(clock),
		activity.WithMaxProfiles(2),
		activity.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("p%d", n)
		}),
	)
	verifier := &auth.MockVerifier{
		User:   auth.TestUser(),
		Tokens: map[string]*auth.User{"other-token": otherUser},
	}

	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(),
		respond.Recoverer(),
	)
	api := humachi.New(router, huma.DefaultConfig("ProfilesTest", "test"))
	api.UseMiddleware(auth.NewAuthMiddleware(api, verifier))
	Register(api, svc)
	return router
}

func do(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func create(t *testing.T, router http.Handler, name string) apimodel.Profile {
	t.Helper()
	resp := do(router, http.MethodPost, "/profiles", "valid-token", `{"name":"`+name+`","avatar":"👧","type":"KIDS"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var p apimodel.Profile
	if err := json.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	return p
}

func TestCreateProfileSuccess(t *testing.T) {
	router := newTestRouter(t, profile.NewMemoryStore())

	resp := do(router, http.MethodPost, "/profiles", "valid-token", `{"name":"<b>Ana</b>","type":"KIDS"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var p apimodel.Profile
	if err := json.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if p.Name != "Ana" {
		t.Errorf("expected sanitized name Ana, got %q", p.Name)
	}
	if p.Streak != 1 || p.Coins != 0 || p.Points != 0 {
		t.Errorf("unexpected starting balance %+v", p)
	}
	if len(p.UnlockedItems) != 2 {
		t.Errorf("expected starter unlocks, got %v", p.UnlockedItems)
	}
	if p.Level.Current.Number != 1 {
		t.Errorf("expected level 1, got %d", p.Level.Current.Number)
	}
	if loc := resp.Header().Get("Location"); loc != "/v1/profiles/"+p.ID {
		t.Errorf("unexpected Location %s", loc)
	}
	if src := resp.Header().Get("X-Data-Source"); src != "remote" {
		t.Errorf("expected X-Data-Source remote, got %q", src)
	}
}

func TestCreateProfileValidation(t *testing.T) {
	router := newTestRouter(t, profile.NewMemoryStore())

	tests := []struct {
		name string
		body string
	}{
		{"unknown-type", `{"name":"Ana","type":"BABY"}`},
		{"missing-name", `{"type":"KIDS"}`},
		{"only-markup", `{"name":"<i></i>","type":"KIDS"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(router, http.MethodPost, "/profiles", "valid-token", tc.body)
			if resp.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", resp.Code, resp.Body.String())
			}
		})
	}
}

func TestCreateProfileLimit(t *testing.T) {
	router := newTestRouter(t, profile.NewMemoryStore())
	create(t, router, "Ana")
	create(t, router, "Bia")

	resp := do(router, http.MethodPost, "/profiles", "valid-token", `{"name":"Caio","type":"TEENS"}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.Code, resp.Body.String())
	}
	var problem huma.ErrorModel
	if err := json.Unmarshal(resp.Body.Bytes(), &problem); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if problem.Detail != "profile limit reached" {
		t.Errorf("unexpected detail %q", problem.Detail)
	}
}

func TestCreateProfileUnauthorized(t *testing.T) {
	router := newTestRouter(t, profile.NewMemoryStore())

	resp := do(router, http.MethodPost, "/profiles", "", `{"name":"Ana","type":"KIDS"}`)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if resp.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("expected WWW-Authenticate header")
	}
}

func TestListProfilesOnlyOwnFamily(t *testing.T) {
	router := newTestRouter(t, profile.NewMemoryStore())
	create(t, router, "Ana")
	create(t, router, "Bia")

	resp := do(router, http.MethodGet, "/profiles", "valid-token", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var data ListData
	if err := json.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if len(data.Profiles) != 2 || data.Profiles[0].Name != "Ana" {
		t.Fatalf("unexpected profiles %+v", data.Profiles)
	}

	resp = do(router, http.MethodGet, "/profiles", "other-token", "")
	if err := json.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if len(data.Profiles) != 0 {
		t.Fatalf("other account should see no profiles, got %d", len(data.Profiles))
	}
}

func TestListProfilesLocalOnlyReportsFallback(t *testing.T) {
	router := newTestRouter(t, nil)
	create(t, router, "Ana")

	resp := do(router, http.MethodGet, "/profiles", "valid-token", "")
	if src := resp.Header().Get("X-Data-Source"); src != "fallback" {
		t.Fatalf("expected X-Data-Source fallback, got %q", src)
	}
}

func TestGetProfileOfAnotherAccountIsNotFound(t *testing.T) {
	router := newTestRouter(t, profile.NewMemoryStore())
	p := create(t, router, "Ana")

	if resp := do(router, http.MethodGet, "/profiles/"+p.ID, "valid-token", ""); resp.Code != http.StatusOK {
		t.Fatalf("owner: expected 200, got %d", resp.Code)
	}
	if resp := do(router, http.MethodGet, "/profiles/"+p.ID, "other-token", ""); resp.Code != http.StatusNotFound {
		t.Fatalf("stranger: expected 404, got %d", resp.Code)
	}
	if resp := do(router, http.MethodGet, "/profiles/missing", "valid-token", ""); resp.Code != http.StatusNotFound {
		t.Fatalf("missing: expected 404, got %d", resp.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	router := newTestRouter(t, profile.NewMemoryStore())
	p := create(t, router, "Ana")

	resp := do(router, http.MethodPatch, "/profiles/"+p.ID, "valid-token", `{"bio":"Gosto de desenhar"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var got apimodel.Profile
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if got.Bio != "Gosto de desenhar" || got.Name != "Ana" {
		t.Fatalf("unexpected profile %+v", got)
	}

	resp = do(router, http.MethodPatch, "/profiles/"+p.ID, "valid-token", `{}`)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty update: expected 422, got %d", resp.Code)
	}
}

func TestDeleteProfile(t *testing.T) {
	router := newTestRouter(t, profile.NewMemoryStore())
	p := create(t, router, "Ana")

	if resp := do(router, http.MethodDelete, "/profiles/"+p.ID, "other-token", ""); resp.Code != http.StatusNotFound {
		t.Fatalf("stranger: expected 404, got %d", resp.Code)
	}
	resp := do(router, http.MethodDelete, "/profiles/"+p.ID, "valid-token", "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.Code, resp.Body.String())
	}
	if resp := do(router, http.MethodGet, "/profiles/"+p.ID, "valid-token", ""); resp.Code != http.StatusNotFound {
		t.Fatalf("after delete: expected 404, got %d", resp.Code)
	}
}

func TestProgress(t *testing.T) {
	router := newTestRouter(t, profile.NewMemoryStore())
	p := create(t, router, "Ana")

	resp := do(router, http.MethodGet, "/profiles/"+p.ID+"/progress", "valid-token", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var prog Progress
	if err := json.Unmarshal(resp.Body.Bytes(), &prog); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if prog.ChallengeDoneToday || prog.ArtDoneToday || prog.VideoDoneToday {
		t.Fatalf("new profile should have open gates, got %+v", prog)
	}
	if prog.Level.Next == nil || prog.Level.Next.MinPoints != 500 {
		t.Fatalf("expected next level at 500 points, got %+v", prog.Level)
	}
}

func TestRanking(t *testing.T) {
	router := newTestRouter(t, profile.NewMemoryStore())
	create(t, router, "Ana")
	create(t, router, "Bia")

	resp := do(router, http.MethodGet, "/ranking", "valid-token", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var data RankingData
	if err := json.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if len(data.Ranking) != 2 || data.Ranking[0].Position != 1 || data.Ranking[0].Name != "Ana" {
		t.Fatalf("unexpected ranking %+v", data.Ranking)
	}
}
