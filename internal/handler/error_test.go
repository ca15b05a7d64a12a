package handler_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/sponsortrack/internal/domain"
	"github.com/aidar/sponsortrack/internal/handler"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    domain.ErrorCode
		wantMessage string
		wantDetails int
	}{
		{
			name: "validation with fields",
			err: domain.NewValidationError([]domain.FieldError{
				{Field: "companyName", Message: "companyName is required"},
				{Field: "location", Message: "location is required"},
			}),
			wantStatus:  http.StatusBadRequest,
			wantCode:    domain.CodeValidation,
			wantMessage: "companyName is required; location is required",
			wantDetails: 2,
		},
		{
			name:        "wrapped sentinel validation",
			err:         fmt.Errorf("bad input: %w", domain.ErrValidation),
			wantStatus:  http.StatusBadRequest,
			wantCode:    domain.CodeValidation,
			wantMessage: "bad input: validation failed",
		},
		{
			name:        "sponsor not found",
			err:         domain.ErrSponsorNotFound,
			wantStatus:  http.StatusNotFound,
			wantCode:    domain.CodeNotFound,
			wantMessage: "sponsor not found",
		},
		{
			name:        "team not found",
			err:         fmt.Errorf("lookup: %w", domain.ErrTeamNotFound),
			wantStatus:  http.StatusNotFound,
			wantCode:    domain.CodeNotFound,
			wantMessage: "lookup: team not found",
		},
		{
			name:        "internal error hides details",
			err:         errors.New("connection reset by peer"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    domain.CodeInternal,
			wantMessage: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/sponsors", nil)

			handler.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp handler.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Len(t, resp.Error.Details, tt.wantDetails)
		})
	}
}
