package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"planhub/db"
	"planhub/routes"
	"planhub/services"
)

type stubGenerator struct {
	reply string
}

func (s stubGenerator) Generate(_ context.Context, _, _ string, _ services.GenerateOptions) (string, error) {
	return s.reply, nil
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	services.SetTextGenerator(stubGenerator{reply: "Good direction."}, 2*time.Second)
	services.InitServices(db.NewMemoryStore(), nil, 10)

	router := gin.New()
	api := router.Group("/api")
	routes.SetupProjectRoutes(api)
	routes.SetupReviewRoutes(api)
	routes.SetupConfirmationRoutes(api)
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetProjectState(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/project/state", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		CurrentSection string `json:"currentSection"`
		Sections       []struct {
			ID     string `json:"id"`
			Locked bool   `json:"locked"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.CurrentSection != "question" {
		t.Errorf("currentSection = %s, want question", resp.CurrentSection)
	}
	if len(resp.Sections) == 0 {
		t.Fatal("sections must not be empty")
	}
	if resp.Sections[0].Locked {
		t.Error("first section must not be locked")
	}
	if !resp.Sections[1].Locked {
		t.Error("second section must be locked on a fresh workspace")
	}
}

func TestSetAnswerEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPut, "/api/project/sections/question/answer",
		gin.H{"answer": "Does caching reduce tail latency?"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"complete":true`) {
		t.Errorf("expected complete:true, body = %s", w.Body.String())
	}
}

func TestSetAnswerLockedSectionRejected(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPut, "/api/project/sections/literature/answer",
		gin.H{"answer": "too early"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400; body = %s", w.Code, w.Body.String())
	}
}

func TestSetAnswerUnknownSection(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPut, "/api/project/sections/nope/answer",
		gin.H{"answer": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestNavigateEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/project/navigate", gin.H{"direction": "advance"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "philosophy") {
		t.Errorf("advance from question must land on philosophy, body = %s", w.Body.String())
	}

	w = doJSON(router, http.MethodPost, "/api/project/navigate", gin.H{"direction": "sideways"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown direction: status = %d, want 400", w.Code)
	}
}

func TestSectionChatEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/project/sections/question/chat",
		gin.H{"message": "How narrow should the question be?"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Good direction.") {
		t.Errorf("assistant reply missing, body = %s", w.Body.String())
	}
}

func TestResetRoundTrip(t *testing.T) {
	router := setupTestRouter(t)

	doJSON(router, http.MethodPut, "/api/project/sections/question/answer",
		gin.H{"answer": "real work"})

	// The reset handler suspends on the confirmation gate.
	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- doJSON(router, http.MethodPost, "/api/project/reset", gin.H{})
	}()

	var pending struct {
		Pending      bool `json:"pending"`
		Confirmation struct {
			ID string `json:"id"`
		} `json:"confirmation"`
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		w := doJSON(router, http.MethodGet, "/api/confirmation/pending", nil)
		if w.Code == http.StatusOK {
			if err := json.Unmarshal(w.Body.Bytes(), &pending); err == nil && pending.Pending {
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatal("no confirmation became pending")
		}
		time.Sleep(5 * time.Millisecond)
	}

	w := doJSON(router, http.MethodPost, "/api/confirmation/resolve",
		gin.H{"id": pending.Confirmation.ID, "accepted": true})
	if w.Code != http.StatusOK {
		t.Fatalf("resolve status = %d, body = %s", w.Code, w.Body.String())
	}

	resetResp := <-done
	if resetResp.Code != http.StatusOK || !strings.Contains(resetResp.Body.String(), `"reset":true`) {
		t.Fatalf("reset response: %d %s", resetResp.Code, resetResp.Body.String())
	}

	state := doJSON(router, http.MethodGet, "/api/project/state", nil)
	if !strings.Contains(state.Body.String(), `"currentSection":"question"`) {
		t.Errorf("reset must return to the first section, body = %s", state.Body.String())
	}
}

func TestImportExportAnswers(t *testing.T) {
	router := setupTestRouter(t)

	// Empty workspace: import applies without a confirmation round trip.
	payload := `{"question": "Imported question", "philosophy": ["positivism"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/project/import", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"imported":true`) {
		t.Fatalf("import: %d %s", w.Code, w.Body.String())
	}

	export := doJSON(router, http.MethodGet, "/api/project/answers", nil)
	if export.Code != http.StatusOK {
		t.Fatalf("export status = %d", export.Code)
	}
	if !strings.Contains(export.Body.String(), "Imported question") {
		t.Errorf("exported answers missing imported content: %s", export.Body.String())
	}
}

func TestExportProjectMarkdown(t *testing.T) {
	router := setupTestRouter(t)
	doJSON(router, http.MethodPut, "/api/project/sections/question/answer",
		gin.H{"answer": "Does caching reduce tail latency?"})

	w := doJSON(router, http.MethodGet, "/api/project/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "# Research Plan") || !strings.Contains(body, "Does caching reduce tail latency?") {
		t.Errorf("unexpected export body: %s", body)
	}
	if disp := w.Header().Get("Content-Disposition"); !strings.Contains(disp, "research-plan.md") {
		t.Errorf("unexpected disposition %q", disp)
	}

	html := doJSON(router, http.MethodGet, "/api/project/export?format=html", nil)
	if !strings.Contains(html.Body.String(), "<h1>") {
		t.Errorf("html export must render headings, body = %s", html.Body.String())
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPut, "/api/project/preferences",
		gin.H{"enhancedLayout": true, "hideWelcomeSplash": true})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d", w.Code)
	}

	got := doJSON(router, http.MethodGet, "/api/project/preferences", nil)
	if !strings.Contains(got.Body.String(), `"enhancedLayout":true`) {
		t.Errorf("preferences not persisted: %s", got.Body.String())
	}
}
