package api_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spareeye/backend/internal/api"
	app_errors "spareeye/backend/internal/errors"
	"spareeye/backend/internal/interfaces/mocks"
	"spareeye/backend/internal/model"
	"spareeye/backend/internal/service"
	"spareeye/backend/internal/speech"
)

func TestUserHandler_Auth(t *testing.T) {
	t.Run("Sign up - success", func(t *testing.T) {
		mockSvc := mocks.NewMockUserService(t)
		handler := api.NewUserHandler(mockSvc)
		mockSvc.On("SignUp", mock.Anything, &service.SignUpInput{Username: "alice", Password: "password123"}).
			Return(&service.Session{Token: "tok", User: &model.User{ID: "alice-id", Username: "alice", HashedPassword: "secret-hash"}}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up", strings.NewReader(`{"username":"alice","password":"password123"}`))
		rr := httptest.NewRecorder()
		handler.HandleSignUp(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.NotContains(t, rr.Body.String(), "secret-hash")
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "tok", resp["token"])
	})

	t.Run("Sign up - short password", func(t *testing.T) {
		handler := api.NewUserHandler(mocks.NewMockUserService(t))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up", strings.NewReader(`{"username":"alice","password":"short"}`))
		rr := httptest.NewRecorder()
		handler.HandleSignUp(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "'password' failed on the 'min' tag")
	})

	t.Run("Sign up - taken username", func(t *testing.T) {
		mockSvc := mocks.NewMockUserService(t)
		handler := api.NewUserHandler(mockSvc)
		mockSvc.On("SignUp", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: taken", app_errors.ErrConflict)).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up", strings.NewReader(`{"username":"alice","password":"password123"}`))
		rr := httptest.NewRecorder()
		handler.HandleSignUp(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Sign in - wrong password", func(t *testing.T) {
		mockSvc := mocks.NewMockUserService(t)
		handler := api.NewUserHandler(mockSvc)
		mockSvc.On("SignIn", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: invalid username or password", app_errors.ErrUnauthorized)).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-in", strings.NewReader(`{"username":"alice","password":"nope"}`))
		rr := httptest.NewRecorder()
		handler.HandleSignIn(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "invalid username or password", decodeError(t, rr))
	})
}

func TestUserHandler_Profile(t *testing.T) {
	t.Run("Get profile wraps the user", func(t *testing.T) {
		mockSvc := mocks.NewMockUserService(t)
		handler := api.NewUserHandler(mockSvc)
		mockSvc.On("GetProfile", mock.Anything, alice).Return(&model.User{ID: alice.UserID, Username: "alice"}, nil).Once()

		req := asCaller(httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil), alice)
		rr := httptest.NewRecorder()
		handler.HandleGetProfile(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.UserResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "alice", resp.User.Username)
	})

	t.Run("Change password - rule message is returned", func(t *testing.T) {
		mockSvc := mocks.NewMockUserService(t)
		handler := api.NewUserHandler(mockSvc)
		mockSvc.On("ChangePassword", mock.Anything, alice, mock.Anything).
			Return(fmt.Errorf("%w: Old password is incorrect", app_errors.ErrValidation)).Once()

		body := `{"oldPassword":"wrong","newPassword":"newpassword"}`
		req := asCaller(httptest.NewRequest(http.MethodPut, "/api/v1/profile/change-password", strings.NewReader(body)), alice)
		rr := httptest.NewRecorder()
		handler.HandleChangePassword(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Old password is incorrect", decodeError(t, rr))
	})

	t.Run("Get another user is forbidden", func(t *testing.T) {
		mockSvc := mocks.NewMockUserService(t)
		handler := api.NewUserHandler(mockSvc)
		mockSvc.On("GetUser", mock.Anything, alice, "bob-id").Return(nil, fmt.Errorf("%w: nope", app_errors.ErrPermission)).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/bob-id", nil)
		req = addChiURLParams(asCaller(req, alice), map[string]string{"userID": "bob-id"})
		rr := httptest.NewRecorder()
		handler.HandleGetUser(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("List users returns names", func(t *testing.T) {
		mockSvc := mocks.NewMockUserService(t)
		handler := api.NewUserHandler(mockSvc)
		mockSvc.On("ListUsers", mock.Anything).Return([]string{"alice", "bob"}, nil).Once()

		req := asCaller(httptest.NewRequest(http.MethodGet, "/api/v1/users", nil), alice)
		rr := httptest.NewRecorder()
		handler.HandleListUsers(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `["alice","bob"]`, rr.Body.String())
	})
}

func TestSettingsHandler(t *testing.T) {
	t.Run("Get - other user is forbidden", func(t *testing.T) {
		mockSvc := mocks.NewMockSettingsService(t)
		handler := api.NewSettingsHandler(mockSvc)
		mockSvc.On("Get", mock.Anything, alice, "bob-id").Return(nil, fmt.Errorf("%w: nope", app_errors.ErrPermission)).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/settings/bob-id", nil)
		req = addChiURLParams(asCaller(req, alice), map[string]string{"userID": "bob-id"})
		rr := httptest.NewRecorder()
		handler.HandleGetSettings(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Update - invalid theme", func(t *testing.T) {
		handler := api.NewSettingsHandler(mocks.NewMockSettingsService(t))

		req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/alice-id", strings.NewReader(`{"theme":"purple"}`))
		req = addChiURLParams(asCaller(req, alice), map[string]string{"userID": "alice-id"})
		rr := httptest.NewRecorder()
		handler.HandleUpdateSettings(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "'theme' failed on the 'oneof' tag")
	})

	t.Run("Update - unknown fields are ignored", func(t *testing.T) {
		mockSvc := mocks.NewMockSettingsService(t)
		handler := api.NewSettingsHandler(mockSvc)
		mockSvc.On("Update", mock.Anything, alice, "alice-id", mock.MatchedBy(func(in *service.UpdateSettingsInput) bool {
			return in.AIVoice != nil && *in.AIVoice == "female" && in.Theme == nil
		})).Return(&model.Settings{UserID: alice.UserID, Theme: "dark", AIVoice: "female"}, nil).Once()

		body := `{"aiVoice":"female","user":"bob-id","createdAt":"2020-01-01T00:00:00Z"}`
		req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/alice-id", strings.NewReader(body))
		req = addChiURLParams(asCaller(req, alice), map[string]string{"userID": "alice-id"})
		rr := httptest.NewRecorder()
		handler.HandleUpdateSettings(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestSpeechHandler_HandleTextToSpeech(t *testing.T) {
	t.Run("Success - streams audio", func(t *testing.T) {
		mockSvc := mocks.NewMockSpeechService(t)
		handler := api.NewSpeechHandler(mockSvc)
		mockSvc.On("Synthesize", mock.Anything, alice, &service.SpeechInput{Text: "hello"}).
			Return(&speech.Audio{ContentType: "audio/mpeg", Body: io.NopCloser(strings.NewReader("mp3-bytes"))}, nil).Once()

		req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/tts", strings.NewReader(`{"text":"hello"}`)), alice)
		rr := httptest.NewRecorder()
		handler.HandleTextToSpeech(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "audio/mpeg", rr.Header().Get("Content-Type"))
		assert.Equal(t, "mp3-bytes", rr.Body.String())
	})

	t.Run("Failure - missing text", func(t *testing.T) {
		mockSvc := mocks.NewMockSpeechService(t)
		handler := api.NewSpeechHandler(mockSvc)
		mockSvc.On("Synthesize", mock.Anything, alice, mock.Anything).
			Return(nil, fmt.Errorf("%w: Missing text.", app_errors.ErrValidation)).Once()

		req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/tts", strings.NewReader(`{"text":" "}`)), alice)
		rr := httptest.NewRecorder()
		handler.HandleTextToSpeech(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Missing text.", decodeError(t, rr))
	})
}
