package common

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type namedRequest struct {
	Name string `json:"name" validate:"required"`
}

func TestNewEchoServer_ValidatesRequests(t *testing.T) {
	e := NewEchoServer("/probe")
	e.POST("/named", func(c echo.Context) error {
		var request namedRequest
		if err := c.Bind(&request); err != nil {
			return err
		}
		if err := c.Validate(&request); err != nil {
			return err
		}
		return c.String(http.StatusOK, request.Name)
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "valid", body: `{"name":"shelf"}`, wantStatus: http.StatusOK},
		{name: "missing name", body: `{}`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/named", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestNewEchoServer_RemovesTrailingSlash(t *testing.T) {
	e := NewEchoServer("/probe")
	e.GET("/probe", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestNewEchoServer_RecoversPanics(t *testing.T) {
	e := NewEchoServer("/probe")
	e.GET("/panic", func(c echo.Context) error {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
