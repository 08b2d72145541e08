package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"EventBoard/internal/model"
	"EventBoard/internal/service"

	"github.com/stretchr/testify/assert"
)

type fakeActionRecorder struct {
	record *model.EventAction
	latest *model.EventAction
	err    error
}

func (f *fakeActionRecorder) Record(ctx context.Context, eventID, eventType, action string) (*model.EventAction, error) {
	return f.record, f.err
}

func (f *fakeActionRecorder) Latest(ctx context.Context, eventID, eventType string) (*model.EventAction, error) {
	return f.latest, f.err
}

func TestRecordAction_OK(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	h := &ActionHandler{
		actions: &fakeActionRecorder{record: &model.EventAction{
			ID: "act-1", EventID: "event-1", EventType: "hackathon",
			Action: "reached_out", Timestamp: now,
		}},
		logger: testAPILogger(),
	}

	r := newTestRouter()
	r.POST("/api/actions", h.RecordAction)

	body := `{"event_id":"event-1","event_type":"hackathon","action":"reached_out"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/actions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "action recorded", resp["message"])
	assert.Equal(t, "reached_out", resp["action"])
}

func TestRecordAction_MissingFieldRejected(t *testing.T) {
	h := &ActionHandler{actions: &fakeActionRecorder{}, logger: testAPILogger()}

	r := newTestRouter()
	r.POST("/api/actions", h.RecordAction)

	// 缺 action 字段，binding:required 直接拦下，不进服务层
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/actions",
		strings.NewReader(`{"event_id":"event-1","event_type":"hackathon"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordAction_InvalidActionRejected(t *testing.T) {
	h := &ActionHandler{
		actions: &fakeActionRecorder{err: fmt.Errorf("%w: 未知操作类型 snooze", service.ErrInvalidAction)},
		logger:  testAPILogger(),
	}

	r := newTestRouter()
	r.POST("/api/actions", h.RecordAction)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/actions",
		strings.NewReader(`{"event_id":"event-1","event_type":"hackathon","action":"snooze"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordAction_StoreUnavailable(t *testing.T) {
	h := &ActionHandler{
		actions: &fakeActionRecorder{err: fmt.Errorf("%w: connection refused", service.ErrStoreUnavailable)},
		logger:  testAPILogger(),
	}

	r := newTestRouter()
	r.POST("/api/actions", h.RecordAction)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/actions",
		strings.NewReader(`{"event_id":"event-1","event_type":"hackathon","action":"archive"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLatestAction_OK(t *testing.T) {
	h := &ActionHandler{
		actions: &fakeActionRecorder{latest: &model.EventAction{
			ID: "act-1", EventID: "event-1", EventType: "conference", Action: "archive",
		}},
		logger: testAPILogger(),
	}

	r := newTestRouter()
	r.GET("/api/actions/latest", h.LatestAction)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/actions/latest?event_id=event-1&event_type=conference", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "archive", resp["action"])
}

func TestLatestAction_NotFound(t *testing.T) {
	h := &ActionHandler{actions: &fakeActionRecorder{}, logger: testAPILogger()}

	r := newTestRouter()
	r.GET("/api/actions/latest", h.LatestAction)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/actions/latest?event_id=event-1&event_type=hackathon", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
