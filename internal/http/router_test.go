package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"erclink/internal/service/mocks"
)

type okPinger struct{}

func (okPinger) PingContext(ctx context.Context) error { return nil }

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := &Deps{
		MatchService: mocks.NewMockMatchService(ctrl),
		DB:           okPinger{},
	}

	router := NewRouter(deps)

	if router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMatchService := mocks.NewMockMatchService(ctrl)
	mockMatchService.EXPECT().Presets().Return([]string{"default"}).AnyTimes()

	router := NewRouter(&Deps{
		MatchService: mockMatchService,
		LinkService:  mocks.NewMockLinkService(ctrl),
		DB:           okPinger{},
	})

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "POST /api/match exists",
			method:     http.MethodPost,
			path:       "/api/match",
			wantStatus: http.StatusBadRequest, // Bad request due to empty body, but route exists
		},
		{
			name:       "GET /api/match method not allowed",
			method:     http.MethodGet,
			path:       "/api/match",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "POST /api/headings",
			method:     http.MethodPost,
			path:       "/api/headings",
			body:       `{"content":"<h1>A</h1>"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/presets",
			method:     http.MethodGet,
			path:       "/api/presets",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/health",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /api/links exists",
			method:     http.MethodPost,
			path:       "/api/links",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_LinkRoutesNeedService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(&Deps{MatchService: mocks.NewMockMatchService(ctrl), DB: okPinger{}})

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Router GET /api/runs without link service status = %v, want %v", w.Code, http.StatusNotFound)
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(&Deps{MatchService: mocks.NewMockMatchService(ctrl), DB: okPinger{}})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Check CORS headers are present
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Router should apply CORS middleware")
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("Router should assign a request id")
	}
}
