// Package handler exposes the submission wizard over HTTP. Page GETs answer
// with the page view as JSON; page POSTs answer 303 See Other with the next
// page, so the rendering front end stays a thin layer.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"cites/internal/documents"
	"cites/internal/submission/models"
	"cites/internal/submission/service"
	dErrors "cites/pkg/domain-errors"
	"cites/pkg/platform/httputil"
	"cites/pkg/requestcontext"
)

// Service is the submission service as the handlers use it.
type Service interface {
	CreateSubmission(ctx context.Context, sc models.SubmissionContext) (*models.Submission, error)
	CloneSubmission(ctx context.Context, sc models.SubmissionContext, applicationIndex int) (*models.Submission, error)
	ViewPage(ctx context.Context, sc models.SubmissionContext, pagePath string) (*service.PageView, error)
	SubmitPage(ctx context.Context, sc models.SubmissionContext, pagePath string, patch models.Document, completed bool) (string, error)
	StartChange(ctx context.Context, sc models.SubmissionContext, changeType string, applicationIndex *int, returnURL string) (string, error)
	ConfirmChange(ctx context.Context, sc models.SubmissionContext, accept bool) (string, error)
	ChangeRoute(ctx context.Context, sc models.SubmissionContext) (*models.ChangeRouteState, error)
	ClearChangeRoute(ctx context.Context, sc models.SubmissionContext) error
	AddApplication(ctx context.Context, sc models.SubmissionContext) (int, error)
	DeleteApplication(ctx context.Context, sc models.SubmissionContext, applicationIndex int) error
	SaveDraftSubmission(ctx context.Context, sc models.SubmissionContext, savePointURL string) error
	LoadDraftSubmission(ctx context.Context, sc models.SubmissionContext) (string, error)
	DeleteDraftSubmission(ctx context.Context, sc models.SubmissionContext) error
	CheckDraftSubmissionExists(ctx context.Context, sc models.SubmissionContext) (bool, error)
	LoadSubmittedSubmission(ctx context.Context, sc models.SubmissionContext, submissionRef string) (*models.Submission, error)
	CreatePayment(ctx context.Context, sc models.SubmissionContext, returnURL string) (string, error)
	CompletePayment(ctx context.Context, sc models.SubmissionContext) (bool, error)
	AttachSupportingDocument(ctx context.Context, sc models.SubmissionContext, fileName, contentType string, body []byte) (models.SupportingDocument, error)
	RemoveSupportingDocument(ctx context.Context, sc models.SubmissionContext, key string) error
}

const (
	// WizardRoot is where a user lands when their session cannot serve the
	// page they asked for.
	WizardRoot        = "/"
	firstPage         = "/permit-type"
	draftSavedURL     = "/draft-saved"
	mySubmissionsURL  = "/my-submissions"
	paymentReturnURL  = "/payment-complete"
	yourSubmissionURL = "/your-submission"
)

type Handler struct {
	svc           Service
	logger        *slog.Logger
	paymentReturn string
}

func New(svc Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger, paymentReturn: paymentReturnURL}
}

// WithPaymentReturnURL sets the absolute URL the payment provider sends the
// user back to. It should resolve to GET /payment-complete.
func (h *Handler) WithPaymentReturnURL(url string) *Handler {
	if url != "" {
		h.paymentReturn = url
	}
	return h
}

// Register mounts the submission routes. Identity and session middleware
// must run first.
func (h *Handler) Register(r chi.Router) {
	r.Get(WizardRoot, h.handleRoot)
	r.Post("/apply", h.handleApply)
	r.Get("/my-submissions", h.handleMySubmissions)
	r.Get("/my-submissions/{submissionRef}", h.handleLoadSubmitted)
	r.Post("/application-summary/copy/{applicationIndex}", h.handleClone)

	r.Post("/add-application", h.handleAddApplication)
	r.Post("/remove-application/{applicationIndex}", h.handleRemoveApplication)

	r.Post("/change", h.handleStartChange)
	r.Get("/confirm-change", h.handleGetConfirmChange)
	r.Post("/confirm-change", h.handleConfirmChange)

	r.Post("/save-draft", h.handleSaveDraft)
	r.Post("/continue-draft", h.handleContinueDraft)
	r.Post("/delete-draft", h.handleDeleteDraft)

	r.Post("/pay-application", h.handlePay)
	r.Get("/payment-complete", h.handlePaymentComplete)

	r.Post("/upload-supporting-documents/files", h.handleUpload)
	r.Delete("/upload-supporting-documents/files", h.handleRemoveUpload)

	r.Get("/*", h.handleViewPage)
	r.Post("/*", h.handleSubmitPage)
}

// PagePost is the body of a wizard page POST.
type PagePost struct {
	Data      models.Document `json:"data"`
	Completed bool            `json:"completed"`
}

type StartChangeRequest struct {
	ChangeType       string `json:"changeType"`
	ApplicationIndex *int   `json:"applicationIndex,omitempty"`
	ReturnURL        string `json:"returnUrl"`
}

func (r *StartChangeRequest) Validate() error {
	r.ChangeType = strings.TrimSpace(r.ChangeType)
	if r.ChangeType == "" {
		return dErrors.New(dErrors.CodeValidation, "changeType is required")
	}
	if r.ReturnURL == "" {
		return dErrors.New(dErrors.CodeValidation, "returnUrl is required")
	}
	return nil
}

type ConfirmChangeRequest struct {
	Confirm bool `json:"confirm"`
}

type SaveDraftRequest struct {
	SavePointURL string `json:"savePointUrl"`
}

func (h *Handler) handleViewPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.svc.ViewPage(ctx, submissionContext(ctx), r.URL.Path)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleSubmitPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[PagePost](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	next, err := h.svc.SubmitPage(ctx, submissionContext(ctx), r.URL.Path, req.Data, req.Completed)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, next)
}

// handleRoot is the landing page every invalid request is sent back to, so it
// never consults the session submission.
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	exists, err := h.svc.CheckDraftSubmissionExists(ctx, submissionContext(ctx))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"start": "/apply", "draftExists": exists})
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := h.svc.CreateSubmission(ctx, submissionContext(ctx)); err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, firstPage)
}

// handleMySubmissions leaves any change journey and reports whether a draft
// can be resumed.
func (h *Handler) handleMySubmissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sc := submissionContext(ctx)
	if err := h.svc.ClearChangeRoute(ctx, sc); err != nil {
		h.fail(w, r, err)
		return
	}
	exists, err := h.svc.CheckDraftSubmissionExists(ctx, sc)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"draftExists": exists})
}

func (h *Handler) handleLoadSubmitted(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sub, err := h.svc.LoadSubmittedSubmission(ctx, submissionContext(ctx), chi.URLParam(r, "submissionRef"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}

func (h *Handler) handleClone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, err := applicationIndex(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.svc.CloneSubmission(ctx, submissionContext(ctx), index); err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, "/application-summary/check/0")
}

func (h *Handler) handleAddApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, err := h.svc.AddApplication(ctx, submissionContext(ctx))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, fmt.Sprintf("/species-name/%d", index))
}

func (h *Handler) handleRemoveApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, err := applicationIndex(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.DeleteApplication(ctx, submissionContext(ctx), index); err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, yourSubmissionURL)
}

func (h *Handler) handleStartChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[StartChangeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	next, err := h.svc.StartChange(ctx, submissionContext(ctx), req.ChangeType, req.ApplicationIndex, req.ReturnURL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, next)
}

func (h *Handler) handleGetConfirmChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, err := h.svc.ChangeRoute(ctx, submissionContext(ctx))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if state == nil {
		seeOther(w, r, WizardRoot)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, state)
}

func (h *Handler) handleConfirmChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ConfirmChangeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	next, err := h.svc.ConfirmChange(ctx, submissionContext(ctx), req.Confirm)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, next)
}

func (h *Handler) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SaveDraftRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.svc.SaveDraftSubmission(ctx, submissionContext(ctx), req.SavePointURL); err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, draftSavedURL)
}

func (h *Handler) handleContinueDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resume, err := h.svc.LoadDraftSubmission(ctx, submissionContext(ctx))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, resume)
}

func (h *Handler) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.svc.DeleteDraftSubmission(ctx, submissionContext(ctx)); err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, mySubmissionsURL)
}

func (h *Handler) handlePay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	next, err := h.svc.CreatePayment(ctx, submissionContext(ctx), h.paymentReturn)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, next)
}

func (h *Handler) handlePaymentComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	paid, err := h.svc.CompletePayment(ctx, submissionContext(ctx))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"paid": paid})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, documents.MaxSize+1<<20)
	file, header, err := r.FormFile("files")
	if err != nil {
		h.logger.WarnContext(ctx, "unreadable upload",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.NewField(dErrors.CodeValidation, "files", "select a file to upload"))
		return
	}
	defer file.Close()
	body, err := io.ReadAll(file)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "read upload"))
		return
	}
	doc, err := h.svc.AttachSupportingDocument(ctx, submissionContext(ctx), header.Filename, header.Header.Get("Content-Type"), body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) handleRemoveUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := r.URL.Query().Get("key")
	if key == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "key is required"))
		return
	}
	if err := h.svc.RemoveSupportingDocument(ctx, submissionContext(ctx), key); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail answers an operation error. A session that cannot serve the page goes
// back to the wizard root; everything else is a JSON error.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	if dErrors.HasCode(err, dErrors.CodeInvalidSubmission) {
		h.logger.InfoContext(ctx, "redirecting invalid submission",
			"request_id", requestID,
			"path", r.URL.Path,
			"error", err,
		)
		seeOther(w, r, WizardRoot)
		return
	}

	code := dErrors.CodeOf(err)
	var de *dErrors.Error
	if !errors.As(err, &de) || dErrors.ToHTTPStatus(code) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "submission request failed",
			"request_id", requestID,
			"path", r.URL.Path,
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func seeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func submissionContext(ctx context.Context) models.SubmissionContext {
	return models.SubmissionContext{
		SessionID:      requestcontext.SessionID(ctx),
		ContactID:      requestcontext.ContactID(ctx),
		OrganisationID: requestcontext.OrganisationID(ctx),
	}
}

func applicationIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "applicationIndex"))
	if err != nil || index < 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid application index")
	}
	return index, nil
}
