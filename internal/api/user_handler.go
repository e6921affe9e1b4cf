package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"spareeye/backend/internal/interfaces"
	"spareeye/backend/internal/model"
	"spareeye/backend/internal/service"
)

// UserResponse wraps a single account.
type UserResponse struct {
	User *model.User `json:"user"`
}

// UserHandler handles sign-up, sign-in, the caller's profile and user lookups.
type UserHandler struct {
	service interfaces.UserService
}

func NewUserHandler(svc interfaces.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// HandleSignUp godoc
// @Summary      Create an account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      service.SignUpInput  true  "New account"
// @Success      201          {object}  service.Session
// @Failure      400          {object}  ErrorResponse
// @Failure      409          {object}  ErrorResponse
// @Router       /v1/auth/sign-up [post]
func (h *UserHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var in service.SignUpInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		respondWithError(w, err)
		return
	}
	session, err := h.service.SignUp(r.Context(), &in)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, session)
}

// HandleSignIn godoc
// @Summary      Sign in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      service.SignInInput  true  "Credentials"
// @Success      200          {object}  service.Session
// @Failure      400          {object}  ErrorResponse
// @Failure      401          {object}  ErrorResponse
// @Router       /v1/auth/sign-in [post]
func (h *UserHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var in service.SignInInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		respondWithError(w, err)
		return
	}
	session, err := h.service.SignIn(r.Context(), &in)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// HandleGetProfile godoc
// @Summary      Get the caller's profile
// @Tags         Profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  AuthErrorResponse
// @Router       /v1/profile [get]
func (h *UserHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	user, err := h.service.GetProfile(r.Context(), caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, UserResponse{User: user})
}

// HandleChangePassword godoc
// @Summary      Change the caller's password
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        passwords  body      service.ChangePasswordInput  true  "Old and new password"
// @Success      200        {object}  StatusResponse
// @Failure      400        {object}  ErrorResponse
// @Router       /v1/profile/change-password [put]
func (h *UserHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var in service.ChangePasswordInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.service.ChangePassword(r.Context(), caller, &in); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok", Message: "Password updated successfully"})
}

// HandleListUsers godoc
// @Summary      List usernames
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   string
// @Router       /v1/users [get]
func (h *UserHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.ListUsers(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, names)
}

// HandleGetUser godoc
// @Summary      Get an account
// @Description  Only the account's owner may read it.
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        userID  path      string  true  "User ID"
// @Success      200     {object}  UserResponse
// @Failure      403     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /v1/users/{userID} [get]
func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	user, err := h.service.GetUser(r.Context(), caller, chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, UserResponse{User: user})
}
