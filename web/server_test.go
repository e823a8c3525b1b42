package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mhpenta/nanogen"
	"github.com/mhpenta/nanogen/gallery"
	"github.com/mhpenta/nanogen/kvstore"
	"github.com/mhpenta/nanogen/session"
)

type mockClient struct {
	GenerateImageFunc func(ctx context.Context, prompt string) (string, error)
	calls             int
}

func (m *mockClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	m.calls++
	if m.GenerateImageFunc != nil {
		return m.GenerateImageFunc(ctx, prompt)
	}
	return nanogen.EncodeDataURI("image/png", []byte{0, 0}), nil
}

type testEnv struct {
	router http.Handler
	kv     *kvstore.Memory
	client *mockClient
	gen    *gallery.Generator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := kvstore.NewMemory()
	client := &mockClient{}
	gen := gallery.NewGenerator(client,
		gallery.WithLogger(log),
		gallery.WithClock(func() time.Time { return time.UnixMilli(1_700_000_000_000) }),
	)

	srv, err := New(session.NewStore(kv, log), gen, log)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	return &testEnv{router: srv.Handler(), kv: kv, client: client, gen: gen}
}

func (e *testEnv) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, _ := http.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

// generate posts prompt and waits for the request it started to land.
func (e *testEnv) generate(t *testing.T, prompt string) {
	t.Helper()
	resp := e.do(http.MethodPost, "/generate", url.Values{"prompt": {prompt}})
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("generate: expected status 303, got %d", resp.Code)
	}
	e.gen.Wait()
}

func (e *testEnv) signIn(t *testing.T) {
	t.Helper()
	resp := e.do(http.MethodPost, "/login", url.Values{
		"name":     {"Ada Lovelace"},
		"email":    {"ada@example.com"},
		"photoUrl": {"https://example.com/ada.png"},
	})
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("login: expected status 303, got %d", resp.Code)
	}
}

func TestHome_LoggedOutShowsLogin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodGet, "/", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `action="/login"`) {
		t.Error("expected the login form")
	}
}

func TestLogin_PersistsSessionAndShowsGenerator(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	raw, ok, _ := env.kv.Get(context.Background(), session.Key)
	if !ok || !strings.Contains(raw, `"name":"Ada Lovelace"`) {
		t.Fatalf("session record not stored: %q", raw)
	}

	body := env.do(http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(body, "Ada Lovelace") {
		t.Error("expected the user's name in the header")
	}
	if !strings.Contains(body, "No images generated yet.") {
		t.Error("expected the empty gallery placeholder")
	}
}

func TestLogin_RequiresName(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodPost, "/login", url.Values{"name": {"   "}})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if _, ok, _ := env.kv.Get(context.Background(), session.Key); ok {
		t.Error("no session should be stored")
	}
}

func TestGenerate_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodPost, "/generate", url.Values{"prompt": {"a red balloon"}})
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", resp.Code)
	}
	if env.client.calls != 0 {
		t.Error("client must not be called without a session")
	}
}

func TestGenerate_AddsImageToGallery(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	env.generate(t, "a red balloon")

	body := env.do(http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(body, "data:image/png;base64,AAA=") {
		t.Error("expected the data URI in the gallery")
	}
	if !strings.Contains(body, "a red balloon") {
		t.Error("expected the prompt in the gallery")
	}
	if !strings.Contains(body, "nanogen-1700000000000.png") {
		t.Error("expected the download file name")
	}
}

func TestGenerate_BlankPromptSkipsClient(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	env.generate(t, "   ")
	if env.client.calls != 0 {
		t.Errorf("client called %d times for a blank prompt", env.client.calls)
	}
}

func TestGenerate_ErrorShownInline(t *testing.T) {
	env := newTestEnv(t)
	env.client.GenerateImageFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("quota exceeded")
	}
	env.signIn(t)

	env.generate(t, "a red balloon")

	body := env.do(http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(body, "quota exceeded") {
		t.Error("expected the error message")
	}
	if !strings.Contains(body, "No images generated yet.") {
		t.Error("gallery should still be empty")
	}
	if !strings.Contains(body, ">a red balloon</textarea>") {
		t.Error("prompt should be kept in the form after a failure")
	}
}

func TestImages_ViewAndDownload(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	env.generate(t, "a red balloon")

	view := env.do(http.MethodGet, "/images/1700000000000", nil)
	if view.Code != http.StatusOK {
		t.Fatalf("view: expected status 200, got %d", view.Code)
	}
	if ct := view.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := view.Body.Bytes(); len(got) != 2 || got[0] != 0 || got[1] != 0 {
		t.Errorf("unexpected body %v", got)
	}

	dl := env.do(http.MethodGet, "/images/1700000000000/download", nil)
	if dl.Code != http.StatusOK {
		t.Fatalf("download: expected status 200, got %d", dl.Code)
	}
	if cd := dl.Header().Get("Content-Disposition"); cd != `attachment; filename="nanogen-1700000000000.png"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestImages_UnknownID(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	if resp := env.do(http.MethodGet, "/images/123", nil); resp.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", resp.Code)
	}
}

func TestLogout_ClearsSessionAndGallery(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	env.generate(t, "a red balloon")

	resp := env.do(http.MethodPost, "/logout", nil)
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", resp.Code)
	}
	if _, ok, _ := env.kv.Get(context.Background(), session.Key); ok {
		t.Error("session should be cleared")
	}

	env.signIn(t)
	body := env.do(http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(body, "No images generated yet.") {
		t.Error("gallery should be empty for the next session")
	}
}

func TestHome_CorruptSessionShowsLogin(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	env.generate(t, "previous session prompt")

	if err := env.kv.Set(context.Background(), session.Key, "{broken"); err != nil {
		t.Fatal(err)
	}

	body := env.do(http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(body, `action="/login"`) {
		t.Error("expected the login form")
	}
	if _, ok, _ := env.kv.Get(context.Background(), session.Key); ok {
		t.Error("corrupt session should be removed")
	}

	env.signIn(t)
	body = env.do(http.MethodGet, "/", nil).Body.String()
	if strings.Contains(body, "previous session prompt") {
		t.Error("gallery of the previous session carried over")
	}
	if !strings.Contains(body, "No images generated yet.") {
		t.Error("gallery should be empty after a corrupt session")
	}
}

func TestGenerate_LoadingViewWhileRequestRuns(t *testing.T) {
	env := newTestEnv(t)
	release := make(chan struct{})
	env.client.GenerateImageFunc = func(ctx context.Context, prompt string) (string, error) {
		<-release
		return nanogen.EncodeDataURI("image/png", []byte{0, 0}), nil
	}
	env.signIn(t)

	resp := env.do(http.MethodPost, "/generate", url.Values{"prompt": {"a red balloon"}})
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", resp.Code)
	}

	body := env.do(http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(body, "disabled>Generating...</button>") {
		t.Error("expected the disabled Generating... button")
	}
	if !strings.Contains(body, `http-equiv="refresh"`) {
		t.Error("expected the page to refresh while loading")
	}

	close(release)
	env.gen.Wait()

	body = env.do(http.MethodGet, "/", nil).Body.String()
	if strings.Contains(body, "Generating...") || strings.Contains(body, `http-equiv="refresh"`) {
		t.Error("loading markers should be gone once the request lands")
	}
	if !strings.Contains(body, "data:image/png;base64,AAA=") {
		t.Error("expected the new image in the gallery")
	}
}

func TestInitial(t *testing.T) {
	tests := map[string]string{"ada": "A", "": "?", "Émile": "É"}
	for in, want := range tests {
		if got := initial(in); got != want {
			t.Errorf("initial(%q) = %q, want %q", in, got, want)
		}
	}
}
