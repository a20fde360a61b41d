package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/gvfl/standings-api/internal/usecase"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{"invalid input", usecase.ErrInvalidInput, http.StatusBadRequest, "invalidInput"},
		{"invalid rank", fmt.Errorf("%w: rank 0", usecase.ErrInvalidRank), http.StatusBadRequest, "invalidInput"},
		{"duplicate placement", usecase.ErrDuplicatePlacement, http.StatusConflict, "duplicatePlacement"},
		{"not found", usecase.ErrNotFound, http.StatusNotFound, "notFound"},
		{"unknown event", usecase.ErrUnknownEvent, http.StatusNotFound, "notFound"},
		{"placement not found", usecase.ErrPlacementNotFound, http.StatusNotFound, "notFound"},
		{"nothing to undo", usecase.ErrNoActionToUndo, http.StatusConflict, "noActionToUndo"},
		{"malformed log entry", usecase.ErrMalformedLogEntry, http.StatusUnprocessableEntity, "malformedLogEntry"},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"dependency unavailable", usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "internalError"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mapped := mapError(tc.err)
			if mapped.HTTPStatus != tc.wantStatus {
				t.Fatalf("unexpected status: want %d, got %d", tc.wantStatus, mapped.HTTPStatus)
			}
			if mapped.Reason != tc.wantReason {
				t.Fatalf("unexpected reason: want %q, got %q", tc.wantReason, mapped.Reason)
			}
		})
	}
}

func TestWriteSuccessEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusCreated, map[string]string{"hello": "world"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type: %q", ct)
	}

	var envelope struct {
		APIVersion string            `json:"apiVersion"`
		Data       map[string]string `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.APIVersion != googleAPIVersion {
		t.Fatalf("unexpected apiVersion: %q", envelope.APIVersion)
	}
	if envelope.Data["hello"] != "world" {
		t.Fatalf("unexpected data: %+v", envelope.Data)
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: event major-berlin", usecase.ErrUnknownEvent))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var envelope struct {
		APIVersion string `json:"apiVersion"`
		Error      struct {
			Code   int    `json:"code"`
			Status string `json:"status"`
			Errors []struct {
				Domain string `json:"domain"`
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"error"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error.Code != http.StatusNotFound || envelope.Error.Status != "NOT_FOUND" {
		t.Fatalf("unexpected error body: %+v", envelope.Error)
	}
	if len(envelope.Error.Errors) != 1 || envelope.Error.Errors[0].Reason != "notFound" {
		t.Fatalf("unexpected error items: %+v", envelope.Error.Errors)
	}
	if envelope.Error.Errors[0].Domain != errorDomain {
		t.Fatalf("unexpected error domain: %q", envelope.Error.Errors[0].Domain)
	}
}
