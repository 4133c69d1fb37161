package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ericogr/pikabattle/internal/engine"
	"github.com/ericogr/pikabattle/internal/game"
	"github.com/ericogr/pikabattle/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingRunner struct{ err error }

func (f failingRunner) Run(ctx context.Context, req service.BattleRequest, obs engine.Observer) (*service.BattleResult, error) {
	return nil, f.err
}

func newTestRouter() *gin.Engine {
	return NewRouter(NewBattleHandler(&service.Runner{MaxRounds: 5, Seed: 21}))
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndTables(t *testing.T) {
	r := newTestRouter()
	if w := do(t, r, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
	w := do(t, r, http.MethodGet, "/api/moves", "")
	var moves []game.Move
	if err := json.Unmarshal(w.Body.Bytes(), &moves); err != nil || len(moves) != 3 {
		t.Fatalf("moves: %v %s", err, w.Body.String())
	}
	w = do(t, r, http.MethodGet, "/api/stages", "")
	var stages []game.Stage
	if err := json.Unmarshal(w.Body.Bytes(), &stages); err != nil || len(stages) != 3 {
		t.Fatalf("stages: %v %s", err, w.Body.String())
	}
	if w := do(t, r, http.MethodGet, "/api/version", ""); w.Code != http.StatusOK {
		t.Fatalf("version: %d", w.Code)
	}
}

func TestCreateBattle(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodPost, "/api/battles", `{"strategy1":"Use Thunder Shock","strategy2":"Dodge","max_rounds":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var res service.BattleResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.ID == "" || res.Status != game.StatusFinished || res.Rounds > 3 || len(res.Log) == 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestCreateBattleEmptyBody(t *testing.T) {
	if w := do(t, newTestRouter(), http.MethodPost, "/api/battles", ""); w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateBattleBadRequests(t *testing.T) {
	r := newTestRouter()
	for _, body := range []string{`{"max_rounds": 501}`, `{"max_rounds": -2}`, `{not json`} {
		if w := do(t, r, http.MethodPost, "/api/battles", body); w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status %d", body, w.Code)
		}
	}
}

func TestCreateBattleRunnerFailure(t *testing.T) {
	r := NewRouter(NewBattleHandler(failingRunner{err: errors.New("boom")}))
	if w := do(t, r, http.MethodPost, "/api/battles", `{}`); w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", w.Code)
	}
}

func dialStream(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/battles/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestStreamBattle(t *testing.T) {
	srv := httptest.NewServer(newTestRouter())
	defer srv.Close()
	conn := dialStream(t, srv)
	defer conn.Close()

	if err := conn.WriteJSON(service.BattleRequest{Strategy1: "a", Strategy2: "b", MaxRounds: 2}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var entries int
	for {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type == MessageEntry {
			entries++
			continue
		}
		if msg.Type != MessageResult || msg.Result == nil {
			t.Fatalf("unexpected message: %+v", msg)
		}
		if len(msg.Result.Log) != entries {
			t.Fatalf("streamed %d entries, result has %d", entries, len(msg.Result.Log))
		}
		return
	}
}

func TestStreamBattleRejectsInvalidRequest(t *testing.T) {
	srv := httptest.NewServer(newTestRouter())
	defer srv.Close()
	conn := dialStream(t, srv)
	defer conn.Close()

	if err := conn.WriteJSON(map[string]int{"max_rounds": 900}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var msg StreamMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != MessageError || msg.Error == "" {
		t.Fatalf("expected error message, got %+v", msg)
	}
}
