package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/kindred/pkg/graph"
	"github.com/matzehuels/kindred/pkg/session"
	"github.com/matzehuels/kindred/pkg/setup"
)

func newTestServer(t *testing.T, defaults setup.Options, store session.Store) *httptest.Server {
	t.Helper()
	srv := New(Config{
		Runner:   setup.NewRunner(nil, nil, nil),
		Store:    store,
		Defaults: defaults,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode %T: %v", v, err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		t.Fatalf("status = %d, want %d: %s", resp.StatusCode, want, buf.String())
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, setup.Options{}, nil)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	expectStatus(t, resp, http.StatusOK)
	if h := decode[HealthResponse](t, resp); h.Status != "ok" || h.Build.Version == "" {
		t.Errorf("health = %+v", h)
	}
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t, setup.Options{Seed: 5}, nil)

	resp := do(t, http.MethodPost, ts.URL+"/sessions", `{"seed": 11}`)
	expectStatus(t, resp, http.StatusCreated)
	created := decode[SessionResponse](t, resp)
	if created.Seed != 11 || created.Week != 1 || created.Card == nil {
		t.Fatalf("created = %+v", created)
	}
	if len(created.Families) != 2 || created.Families[0] == created.Families[1] {
		t.Errorf("families = %v", created.Families)
	}

	resp = do(t, http.MethodGet, ts.URL+"/sessions/"+created.ID, "")
	expectStatus(t, resp, http.StatusOK)
	got := decode[SessionResponse](t, resp)
	if got.Card == nil || got.Card.Text != created.Card.Text {
		t.Errorf("current card = %+v, want %+v", got.Card, created.Card)
	}

	url := ts.URL + "/sessions/" + created.ID + "/advance"
	if len(created.Card.Choices) > 0 && created.Card.Choices[0].Followup != "" {
		followup := created.Card.Choices[0].Followup
		resp = do(t, http.MethodPost, url, `{"followup": "`+followup+`"}`)
		expectStatus(t, resp, http.StatusOK)
		next := decode[SessionResponse](t, resp)
		if next.Card.Template != followup || next.Cursor != created.Cursor || next.Week != 2 {
			t.Errorf("after follow-up = %+v", next)
		}
	}

	resp = do(t, http.MethodPost, url, "")
	expectStatus(t, resp, http.StatusOK)
	next := decode[SessionResponse](t, resp)
	if next.Cursor != created.Cursor+1 {
		t.Errorf("cursor = %d, want %d", next.Cursor, created.Cursor+1)
	}

	resp = do(t, http.MethodGet, ts.URL+"/sessions", "")
	expectStatus(t, resp, http.StatusOK)
	if list := decode[[]SessionSummary](t, resp); len(list) != 1 || list[0].ID != created.ID || list[0].Week != next.Week {
		t.Errorf("list = %+v", list)
	}

	resp = do(t, http.MethodDelete, ts.URL+"/sessions/"+created.ID, "")
	expectStatus(t, resp, http.StatusNoContent)
	resp = do(t, http.MethodGet, ts.URL+"/sessions/"+created.ID, "")
	expectStatus(t, resp, http.StatusNotFound)
	if e := decode[ErrorResponse](t, resp); e.Code != "SESSION_NOT_FOUND" {
		t.Errorf("error code = %s", e.Code)
	}
}

func TestFamilies(t *testing.T) {
	ts := newTestServer(t, setup.Options{Seed: 3}, nil)
	created := decode[SessionResponse](t, do(t, http.MethodPost, ts.URL+"/sessions", ""))
	base := ts.URL + "/sessions/" + created.ID + "/families/"

	for n, name := range map[string]string{"1": created.Families[0], "2": created.Families[1]} {
		resp := do(t, http.MethodGet, base+n, "")
		expectStatus(t, resp, http.StatusOK)
		f := decode[graph.Family](t, resp)
		if f.Name != name || f.Merged {
			t.Errorf("family %s = %s merged=%v", n, f.Name, f.Merged)
		}
		for _, e := range f.Edges {
			if !e.Present {
				t.Errorf("family %s lists absent edge %d", n, e.Index)
			}
		}
	}

	resp := do(t, http.MethodGet, base+"3?all=true", "")
	expectStatus(t, resp, http.StatusOK)
	if f := decode[graph.Family](t, resp); !f.Merged || f.Nodes[0].Name == "" {
		t.Errorf("combined family = %+v", f)
	}

	resp = do(t, http.MethodGet, base+"1?format=dot", "")
	expectStatus(t, resp, http.StatusOK)
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if !strings.HasPrefix(buf.String(), "graph G {") {
		t.Errorf("dot output = %q", buf.String())
	}

	for _, bad := range []string{"4", "x", "1?format=png"} {
		resp := do(t, http.MethodGet, base+bad, "")
		expectStatus(t, resp, http.StatusBadRequest)
	}
}

func TestAdvanceErrors(t *testing.T) {
	dir := t.TempDir()
	templates := filepath.Join(dir, "templates.toml")
	body := "[[template]]\nname = \"wave\"\nroles = [\"waver\"]\ntext = \"{waver} waves.\"\n"
	if err := os.WriteFile(templates, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, setup.Options{Seed: 2, MinFamilySize: 3, MaxFamilySize: 3, Templates: templates}, nil)

	created := decode[SessionResponse](t, do(t, http.MethodPost, ts.URL+"/sessions", ""))
	if created.Remaining != 5 {
		t.Fatalf("remaining = %d, want 5", created.Remaining)
	}
	url := ts.URL + "/sessions/" + created.ID + "/advance"

	resp := do(t, http.MethodPost, url, `{"followup": "no_such_template"}`)
	expectStatus(t, resp, http.StatusNotFound)
	resp = do(t, http.MethodPost, url, `{"bogus": true}`)
	expectStatus(t, resp, http.StatusBadRequest)

	for range 5 {
		expectStatus(t, do(t, http.MethodPost, url, "{}"), http.StatusOK)
	}
	resp = do(t, http.MethodPost, url, "{}")
	expectStatus(t, resp, http.StatusConflict)
	if e := decode[ErrorResponse](t, resp); e.Code != "SELECTOR_EXHAUSTED" {
		t.Errorf("error code = %s", e.Code)
	}

	resp = do(t, http.MethodGet, ts.URL+"/sessions/"+created.ID, "")
	if got := decode[SessionResponse](t, resp); got.Week != 6 || !got.Exhausted {
		t.Errorf("after exhaustion = %+v", got)
	}
}

func TestCreateRejectsInvalidOptions(t *testing.T) {
	ts := newTestServer(t, setup.Options{}, nil)
	resp := do(t, http.MethodPost, ts.URL+"/sessions", `{"min_family_size": 5, "max_family_size": 2}`)
	expectStatus(t, resp, http.StatusBadRequest)
	if e := decode[ErrorResponse](t, resp); e.Code != "INVALID_CONFIG" {
		t.Errorf("error code = %s", e.Code)
	}
}

func TestCreateUnsatisfiableLargeFamily(t *testing.T) {
	ts := newTestServer(t, setup.Options{}, nil)
	body := `{"min_family_size": 20, "max_family_size": 20, "family_one": {"min_density": 0, "max_density": 0.05}}`

	start := time.Now()
	resp := do(t, http.MethodPost, ts.URL+"/sessions", body)
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	if e := decode[ErrorResponse](t, resp); e.Code != "UNSATISFIABLE_CONSTRAINTS" {
		t.Errorf("error code = %s", e.Code)
	}
	if d := time.Since(start); d > 5*time.Second {
		t.Errorf("unsatisfiable request took %v", d)
	}
}

func TestResumeFromStore(t *testing.T) {
	store := session.NewMemoryStore()
	first := newTestServer(t, setup.Options{Seed: 8}, store)
	created := decode[SessionResponse](t, do(t, http.MethodPost, first.URL+"/sessions", ""))
	expectStatus(t, do(t, http.MethodPost, first.URL+"/sessions/"+created.ID+"/advance", ""), http.StatusOK)

	// A second server sharing the store has no live state for the session.
	second := newTestServer(t, setup.Options{Seed: 8}, store)
	resp := do(t, http.MethodGet, second.URL+"/sessions/"+created.ID, "")
	expectStatus(t, resp, http.StatusOK)
	got := decode[SessionResponse](t, resp)
	if got.Week != 2 || got.Cursor != created.Cursor+1 || got.WorldID != created.WorldID {
		t.Errorf("resumed = %+v", got)
	}

	sess, err := store.Get(context.Background(), created.ID)
	if err != nil || sess.Week != 2 {
		t.Errorf("stored session = %+v, %v", sess, err)
	}
}

// failingStore is a MemoryStore whose writes can be switched off.
type failingStore struct {
	*session.MemoryStore
	fail atomic.Bool
}

func (s *failingStore) Set(ctx context.Context, sess *session.Session) error {
	if s.fail.Load() {
		return stderrors.New("store unavailable")
	}
	return s.MemoryStore.Set(ctx, sess)
}

func TestAdvanceStoreFailureKeepsStoredState(t *testing.T) {
	store := &failingStore{MemoryStore: session.NewMemoryStore()}
	ts := newTestServer(t, setup.Options{Seed: 8}, store)
	created := decode[SessionResponse](t, do(t, http.MethodPost, ts.URL+"/sessions", ""))
	url := ts.URL + "/sessions/" + created.ID

	expectStatus(t, do(t, http.MethodPost, url+"/advance", ""), http.StatusOK)

	store.fail.Store(true)
	expectStatus(t, do(t, http.MethodPost, url+"/advance", ""), http.StatusInternalServerError)
	store.fail.Store(false)

	resp := do(t, http.MethodGet, url, "")
	expectStatus(t, resp, http.StatusOK)
	if got := decode[SessionResponse](t, resp); got.Week != 2 {
		t.Errorf("week after failed write = %d, want the stored week 2", got.Week)
	}

	resp = do(t, http.MethodPost, url+"/advance", "")
	expectStatus(t, resp, http.StatusOK)
	if got := decode[SessionResponse](t, resp); got.Week != 3 {
		t.Errorf("week after retry = %d, want 3", got.Week)
	}
}
