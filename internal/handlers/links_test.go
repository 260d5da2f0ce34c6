package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"erclink/internal/linker"
	"erclink/internal/service"
	"erclink/internal/service/mocks"
	"erclink/internal/storage"
)

func TestLinksHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	report := linker.Report{Rows: 2, Linked: 1, Unmatched: 1}

	tests := []struct {
		name          string
		method        string
		body          interface{}
		mockSetup     func(*mocks.MockLinkService)
		wantStatus    int
		checkResponse func(*LinkResponse) bool
	}{
		{
			name:   "link pass",
			method: http.MethodPost,
			body:   LinkRequest{DatasetPageID: "1", ReportPageID: "2", LinkType: "tea"},
			mockSetup: func(m *mocks.MockLinkService) {
				m.EXPECT().
					UpdateLinks(gomock.Any(), service.LinkRequest{DatasetPageID: "1", ReportPageID: "2", Style: linker.StyleTEA}).
					Return(service.LinkResult{RunID: "run-1", Title: "Datasets: X", Comment: "Updated tea links", Content: "<table/>", Updated: true, Report: report}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(resp *LinkResponse) bool {
				return resp.RunID == "run-1" && resp.Updated && resp.Report.Linked == 1 && resp.Content == ""
			},
		},
		{
			name:   "dry run returns content",
			method: http.MethodPost,
			body:   LinkRequest{DatasetPageID: "1", ReportPageID: "2", LinkType: "thecb", DryRun: true},
			mockSetup: func(m *mocks.MockLinkService) {
				m.EXPECT().
					UpdateLinks(gomock.Any(), gomock.Any()).
					Return(service.LinkResult{Content: "<table/>", Report: report}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(resp *LinkResponse) bool {
				return !resp.Updated && resp.Content == "<table/>"
			},
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			mockSetup:  func(m *mocks.MockLinkService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid JSON body",
			method:     http.MethodPost,
			body:       "nope",
			mockSetup:  func(m *mocks.MockLinkService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "validation error",
			method: http.MethodPost,
			body:   LinkRequest{ReportPageID: "2", LinkType: "tea"},
			mockSetup: func(m *mocks.MockLinkService) {
				m.EXPECT().UpdateLinks(gomock.Any(), gomock.Any()).
					Return(service.LinkResult{}, &service.ValidationError{Field: "dataset_page_id", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "title mismatch",
			method: http.MethodPost,
			body:   LinkRequest{DatasetPageID: "1", ReportPageID: "2", LinkType: "tea"},
			mockSetup: func(m *mocks.MockLinkService) {
				m.EXPECT().UpdateLinks(gomock.Any(), gomock.Any()).
					Return(service.LinkResult{}, fmt.Errorf("%w: dataset expects report", service.ErrTitleMismatch))
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "table not found",
			method: http.MethodPost,
			body:   LinkRequest{DatasetPageID: "1", ReportPageID: "2", LinkType: "tea"},
			mockSetup: func(m *mocks.MockLinkService) {
				m.EXPECT().UpdateLinks(gomock.Any(), gomock.Any()).
					Return(service.LinkResult{}, fmt.Errorf("link page: %w", linker.ErrTableNotFound))
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:   "unbalanced table",
			method: http.MethodPost,
			body:   LinkRequest{DatasetPageID: "1", ReportPageID: "2", LinkType: "thecb"},
			mockSetup: func(m *mocks.MockLinkService) {
				m.EXPECT().UpdateLinks(gomock.Any(), gomock.Any()).
					Return(service.LinkResult{}, fmt.Errorf("link page: %w", linker.ErrMalformedTable))
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:   "page not found",
			method: http.MethodPost,
			body:   LinkRequest{DatasetPageID: "1", ReportPageID: "2", LinkType: "tea"},
			mockSetup: func(m *mocks.MockLinkService) {
				m.EXPECT().UpdateLinks(gomock.Any(), gomock.Any()).
					Return(service.LinkResult{}, fmt.Errorf("get page: %w", service.ErrNotFound))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "wiki unavailable",
			method: http.MethodPost,
			body:   LinkRequest{DatasetPageID: "1", ReportPageID: "2", LinkType: "tea"},
			mockSetup: func(m *mocks.MockLinkService) {
				m.EXPECT().UpdateLinks(gomock.Any(), gomock.Any()).
					Return(service.LinkResult{}, service.ErrExternalService)
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLinkService := mocks.NewMockLinkService(ctrl)
			tt.mockSetup(mockLinkService)

			var bodyBytes []byte
			if s, ok := tt.body.(string); ok {
				bodyBytes = []byte(s)
			} else if tt.body != nil {
				var err error
				if bodyBytes, err = json.Marshal(tt.body); err != nil {
					t.Fatalf("failed to marshal body: %v", err)
				}
			}

			w := httptest.NewRecorder()
			NewLinksHandler(mockLinkService).ServeHTTP(w, httptest.NewRequest(tt.method, "/api/links", bytes.NewReader(bodyBytes)))

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.checkResponse == nil {
				return
			}
			var resp LinkResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !tt.checkResponse(&resp) {
				t.Errorf("ServeHTTP() response validation failed: %+v", resp)
			}
		})
	}
}

func TestRunsHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("lists runs", func(t *testing.T) {
		m := mocks.NewMockLinkService(ctrl)
		m.EXPECT().RecentRuns(gomock.Any(), 5).Return([]storage.LinkRun{
			{ID: "a", DatasetPageID: "1", ReportPageID: "2", Style: "tea", Rows: 3, Linked: 2, CreatedAt: created},
		}, nil)

		w := httptest.NewRecorder()
		NewRunsHandler(m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs?limit=5", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("ServeHTTP() status = %v", w.Code)
		}
		var resp RunsResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(resp.Runs) != 1 || resp.Runs[0].LinkType != "tea" || resp.Runs[0].CreatedAt != "2024-03-01T12:00:00Z" {
			t.Errorf("ServeHTTP() runs = %+v", resp.Runs)
		}
	})

	t.Run("default limit", func(t *testing.T) {
		m := mocks.NewMockLinkService(ctrl)
		m.EXPECT().RecentRuns(gomock.Any(), 0).Return([]storage.LinkRun{}, nil)

		w := httptest.NewRecorder()
		NewRunsHandler(m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("ServeHTTP() status = %v", w.Code)
		}
		if body := w.Body.String(); body != "{\"runs\":[]}\n" {
			t.Errorf("ServeHTTP() body = %q", body)
		}
	})

	t.Run("bad limit", func(t *testing.T) {
		m := mocks.NewMockLinkService(ctrl)
		w := httptest.NewRecorder()
		NewRunsHandler(m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs?limit=x", nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("ServeHTTP() status = %v, want 400", w.Code)
		}
	})

	t.Run("storage error", func(t *testing.T) {
		m := mocks.NewMockLinkService(ctrl)
		m.EXPECT().RecentRuns(gomock.Any(), 0).Return(nil, errors.New("db closed"))
		w := httptest.NewRecorder()
		NewRunsHandler(m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("ServeHTTP() status = %v, want 500", w.Code)
		}
	})
}
