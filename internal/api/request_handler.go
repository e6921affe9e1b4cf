package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	app_errors "spareeye/backend/internal/errors"
	"spareeye/backend/internal/interfaces"
	"spareeye/backend/internal/service"
	"spareeye/backend/internal/uploads"
)

const (
	// multipartMemory is how much of a multipart body is kept in memory
	// before spilling to temporary files.
	multipartMemory = 8 << 20
	// multipartOverhead leaves room for boundaries and text fields on top of
	// the file bytes.
	multipartOverhead = 1 << 20

	imagesField    = "images"
	imageURLsField = "imageUrls"
	userTextField  = "userText"
)

// UploadResponse lists the references of freshly stored images.
type UploadResponse struct {
	URLs []string `json:"urls"`
}

// AnalyzeRequest is the JSON form of an analyze call.
type AnalyzeRequest struct {
	UserText  string     `json:"userText" validate:"max=5000"`
	ImageURLs StringList `json:"imageUrls" validate:"max=50"`
}

// StringList decodes either a JSON array of strings or a string. A string
// holding a JSON array is unpacked; any other string is a single item.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = parseStringList(single)
	return nil
}

func parseStringList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return list
		}
	}
	return []string{raw}
}

// RequestHandler handles HTTP requests for diagnosis requests, uploads and analysis.
type RequestHandler struct {
	service interfaces.RequestService
	limits  uploads.Limits
}

func NewRequestHandler(svc interfaces.RequestService, limits uploads.Limits) *RequestHandler {
	return &RequestHandler{service: svc, limits: limits}
}

// HandleCreateRequest godoc
// @Summary      Create a diagnosis request
// @Description  Creates a new request owned by the caller.
// @Tags         Requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      service.CreateRequestInput  true  "Request payload"
// @Success      201      {object}  model.DiagnosisRequest
// @Failure      400      {object}  ErrorResponse
// @Failure      403      {object}  ErrorResponse
// @Router       /v1/requests [post]
func (h *RequestHandler) HandleCreateRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var in service.CreateRequestInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		respondWithError(w, err)
		return
	}

	req, err := h.service.Create(r.Context(), caller, &in)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, req)
}

// HandleListRequests godoc
// @Summary      List diagnosis requests
// @Description  Returns the caller's requests, newest first.
// @Tags         Requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.DiagnosisRequest
// @Failure      401  {object}  AuthErrorResponse
// @Router       /v1/requests [get]
func (h *RequestHandler) HandleListRequests(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	requests, err := h.service.List(r.Context(), caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, requests)
}

// HandleGetRequest godoc
// @Summary      Get a diagnosis request
// @Tags         Requests
// @Produce      json
// @Security     BearerAuth
// @Param        requestID  path      string  true  "Request ID"
// @Success      200        {object}  model.DiagnosisRequest
// @Failure      403        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /v1/requests/{requestID} [get]
func (h *RequestHandler) HandleGetRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	req, err := h.service.Get(r.Context(), caller, chi.URLParam(r, "requestID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, req)
}

// HandleUpdateRequest godoc
// @Summary      Update a diagnosis request
// @Description  Applies a partial update; omitted fields keep their value.
// @Tags         Requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        requestID  path      string                      true  "Request ID"
// @Param        request    body      service.UpdateRequestInput  true  "Fields to change"
// @Success      200        {object}  model.DiagnosisRequest
// @Failure      400        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /v1/requests/{requestID} [put]
func (h *RequestHandler) HandleUpdateRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var in service.UpdateRequestInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		respondWithError(w, err)
		return
	}

	req, err := h.service.Update(r.Context(), caller, chi.URLParam(r, "requestID"), &in)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, req)
}

// HandleDeleteRequest godoc
// @Summary      Delete a diagnosis request
// @Tags         Requests
// @Produce      json
// @Security     BearerAuth
// @Param        requestID  path      string  true  "Request ID"
// @Success      200        {object}  model.DiagnosisRequest
// @Failure      403        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /v1/requests/{requestID} [delete]
func (h *RequestHandler) HandleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	req, err := h.service.Delete(r.Context(), caller, chi.URLParam(r, "requestID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, req)
}

// HandleUploadImages godoc
// @Summary      Upload images
// @Description  Stores up to the configured number of JPG, PNG or WEBP images and returns their references.
// @Tags         Requests
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        images  formData  file  true  "Image files"
// @Success      200     {object}  UploadResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      413     {object}  ErrorResponse
// @Failure      415     {object}  ErrorResponse
// @Router       /v1/requests/uploads/images [post]
func (h *RequestHandler) HandleUploadImages(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.parseMultipart(w, r); err != nil {
		respondWithError(w, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files, err := h.readImages(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	urls, err := h.service.Upload(r.Context(), caller, files)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, UploadResponse{URLs: urls})
}

// HandleAnalyze godoc
// @Summary      Analyze a damaged part
// @Description  Sends the text and images to the AI provider and returns a structured diagnosis. Accepts multipart (userText, imageUrls, images) or JSON. Nothing is saved to the request history.
// @Tags         Requests
// @Accept       multipart/form-data,json
// @Produce      json
// @Security     BearerAuth
// @Param        userText   formData  string  false  "Question or description"
// @Param        imageUrls  formData  string  false  "Image references, repeated or a JSON array"
// @Param        images     formData  file    false  "Fresh image files"
// @Success      200        {object}  service.AnalyzeResult
// @Failure      400        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Failure      413        {object}  ErrorResponse
// @Failure      415        {object}  ErrorResponse
// @Failure      502        {object}  ErrorResponse
// @Failure      504        {object}  ErrorResponse
// @Router       /v1/requests/analyze [post]
func (h *RequestHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	in, err := h.readAnalyzeInput(w, r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	result, err := h.service.Analyze(r.Context(), caller, in)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *RequestHandler) readAnalyzeInput(w http.ResponseWriter, r *http.Request) (*service.AnalyzeInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req AnalyzeRequest
		if err := decodeAndValidate(w, r, &req); err != nil {
			return nil, err
		}
		return &service.AnalyzeInput{UserText: req.UserText, ImageURLs: req.ImageURLs}, nil
	}

	if err := h.parseMultipart(w, r); err != nil {
		return nil, err
	}
	var refs []string
	for _, v := range r.MultipartForm.Value[imageURLsField] {
		refs = append(refs, parseStringList(v)...)
	}
	files, err := h.readImages(r)
	if err != nil {
		return nil, err
	}
	return &service.AnalyzeInput{
		UserText:  r.FormValue(userTextField),
		ImageURLs: refs,
		Files:     files,
	}, nil
}

// parseMultipart bounds the body by the upload limits and parses it.
func (h *RequestHandler) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	maxBody := int64(h.limits.MaxFiles)*h.limits.MaxFileBytes + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
			return fmt.Errorf("%w: One or more files exceed %dMB.", app_errors.ErrTooLarge, h.limits.MaxFileBytes>>20)
		}
		return fmt.Errorf("%w: invalid multipart form: %v", app_errors.ErrValidation, err)
	}
	return nil
}

// readImages loads the image parts into memory. Parts over the size limit are
// not read; their size alone makes the store reject the batch.
func (h *RequestHandler) readImages(r *http.Request) ([]uploads.File, error) {
	headers := r.MultipartForm.File[imagesField]
	if len(headers) > h.limits.MaxFiles {
		return nil, fmt.Errorf("%w: at most %d images are allowed", app_errors.ErrValidation, h.limits.MaxFiles)
	}

	files := make([]uploads.File, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > h.limits.MaxFileBytes {
			files = append(files, uploads.File{Name: fh.Filename, Size: fh.Size})
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}
		data, err := io.ReadAll(io.LimitReader(f, h.limits.MaxFileBytes+1))
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file: %w", err)
		}
		files = append(files, uploads.File{Name: fh.Filename, Size: int64(len(data)), Data: data})
	}
	return files, nil
}
