package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spareeye/backend/internal/api"
	"spareeye/backend/internal/auth"
	"spareeye/backend/internal/interfaces/mocks"
	"spareeye/backend/internal/model"
	"spareeye/backend/internal/uploads"
)

type routerFixture struct {
	router   http.Handler
	tokens   *auth.TokenManager
	requests *mocks.MockRequestService
	store    *uploads.Store
}

func setupRouter(t *testing.T) *routerFixture {
	tokens := auth.NewTokenManager("router-secret", time.Hour)
	requests := mocks.NewMockRequestService(t)
	store := uploads.NewStore(afero.NewMemMapFs(), testLimits)

	router := api.NewRouter(api.Handlers{
		Requests: api.NewRequestHandler(requests, testLimits),
		Users:    api.NewUserHandler(mocks.NewMockUserService(t)),
		Settings: api.NewSettingsHandler(mocks.NewMockSettingsService(t)),
		Speech:   api.NewSpeechHandler(mocks.NewMockSpeechService(t)),
		Uploads:  store.FileServer(),
	}, api.RouterOptions{
		Tokens:         tokens,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return &routerFixture{router: router, tokens: tokens, requests: requests, store: store}
}

func TestRouter_Healthz(t *testing.T) {
	f := setupRouter(t)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouter_Authentication(t *testing.T) {
	f := setupRouter(t)

	expired := auth.NewTokenManager("router-secret", -time.Minute)
	expiredToken, err := expired.Issue(alice)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"missing", "", api.CodeTokenMissing},
		{"wrong scheme", "Basic abc", api.CodeTokenMissing},
		{"expired", "Bearer " + expiredToken, api.CodeTokenExpired},
		{"garbage", "Bearer not-a-token", api.CodeTokenInvalid},
	}
	for _, tc := range cases {
		t.Run("Rejected - "+tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/requests", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			f.router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			var resp api.AuthErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "fail", resp.Status)
			assert.Equal(t, tc.code, resp.Code)
		})
	}

	t.Run("Accepted - identity reaches the service", func(t *testing.T) {
		token, err := f.tokens.Issue(alice)
		require.NoError(t, err)
		f.requests.On("List", mock.Anything, alice).Return([]*model.DiagnosisRequest{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/requests", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})
}

func TestRouter_Uploads(t *testing.T) {
	f := setupRouter(t)
	refs, err := f.store.Save(alice.UserID, []uploads.File{{Name: "pads.png", Data: pngBytes}})
	require.NoError(t, err)

	t.Run("Serves a stored image without auth", func(t *testing.T) {
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, refs[0], nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, uploads.MediaTypePNG, rr.Header().Get("Content-Type"))
		assert.Equal(t, pngBytes, rr.Body.Bytes())
	})

	for _, path := range []string{"/uploads/alice-id/", "/uploads/alice-id", "/uploads/", "/uploads/alice-id/missing.png"} {
		t.Run("Not found - "+path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			f.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusNotFound, rr.Code)
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	f := setupRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/requests", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}
