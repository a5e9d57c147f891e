package common

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type uploadRequest struct {
	FolderName string `json:"folderName" validate:"required,notblank"`
	Row        string `json:"row" validate:"required"`
	Note       string `json:"-" validate:"max=3"`
}

func TestGenericEchoValidator_Validate(t *testing.T) {
	tests := []struct {
		name        string
		request     uploadRequest
		wantErr     bool
		wantMessage string
	}{
		{name: "valid", request: uploadRequest{FolderName: "shelf-A", Row: "1"}},
		{name: "missing folder", request: uploadRequest{Row: "1"}, wantErr: true, wantMessage: "folderName is required"},
		{name: "blank folder", request: uploadRequest{FolderName: "   ", Row: "1"}, wantErr: true, wantMessage: "folderName is required"},
		{name: "missing row", request: uploadRequest{FolderName: "shelf-A"}, wantErr: true, wantMessage: "row is required"},
		{name: "field without json name", request: uploadRequest{FolderName: "shelf-A", Row: "1", Note: "long"}, wantErr: true, wantMessage: "Note failed max=3"},
	}

	gv := NewGenericEchoValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gv.Validate(&tt.request)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}

			var httpErr *echo.HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("Expected *echo.HTTPError, got %T", err)
			}
			if httpErr.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", httpErr.Code)
			}
			message, _ := httpErr.Message.(string)
			if !strings.Contains(message, tt.wantMessage) {
				t.Errorf("Expected message to contain %q, got %q", tt.wantMessage, message)
			}
		})
	}
}

func TestGenericEchoValidator_ZeroValueInitializes(t *testing.T) {
	gv := &GenericEchoValidator{}
	if err := gv.Validate(&uploadRequest{FolderName: " ", Row: "1"}); err == nil {
		t.Error("Expected notblank to be registered on a zero-value validator")
	}
}

func TestNewGenericEchoValidator_ReturnsReadyValidator(t *testing.T) {
	gv := NewGenericEchoValidator()
	if gv == nil || gv.Validator == nil {
		t.Fatal("Expected constructor to return an initialized validator")
	}
	if err := gv.Validate(&uploadRequest{FolderName: "shelf-A", Row: "1"}); err != nil {
		t.Errorf("Expected valid request to pass, got %v", err)
	}
}
