package dto

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/commons/commons/internal/model"
)

func TestList_Meta(t *testing.T) {
	tests := []struct {
		name      string
		index     int
		total     int
		wantPage  int
		wantPages int
	}{
		{name: "first page", index: 0, total: 25, wantPage: 1, wantPages: 3},
		{name: "last page", index: 2, total: 25, wantPage: 3, wantPages: 3},
		{name: "exact multiple", index: 0, total: 10, wantPage: 1, wantPages: 2},
		{name: "empty", index: 0, total: 0, wantPage: 1, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := List(&model.Page[string]{Index: tt.index, Total: tt.total})
			content := env.Content.(ListContent[string])

			if content.Meta.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", content.Meta.Page, tt.wantPage)
			}
			if content.Meta.Pages != tt.wantPages {
				t.Errorf("Pages = %d, want %d", content.Meta.Pages, tt.wantPages)
			}
			if content.Data == nil {
				t.Error("Data should be an empty slice, not nil")
			}
		})
	}
}

func TestWriteError_Shape(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, ErrorDetail{Param: "name", Message: "too short", Code: "INVALID_INPUT"})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != false {
		t.Errorf("status field = %v, want false", body["status"])
	}
	if _, ok := body["content"]; ok {
		t.Error("failed envelope should not carry content")
	}
	errs := body["errors"].([]any)
	first := errs[0].(map[string]any)
	if first["param"] != "name" || first["code"] != "INVALID_INPUT" {
		t.Errorf("error detail = %v", first)
	}
}

func TestData_Shape(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, Data(map[string]string{"id": "01H"}))

	var body struct {
		Status  bool `json:"status"`
		Content struct {
			Data map[string]string `json:"data"`
		} `json:"content"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Status || body.Content.Data["id"] != "01H" {
		t.Errorf("body = %+v", body)
	}
}
