package controller

import (
	"errors"
	"net/http"
	"readiness_backend/internal/service"
	"readiness_backend/internal/util"
	"readiness_backend/internal/validation"
	"readiness_backend/pkg/monitoring"
	"regexp"

	"github.com/gin-gonic/gin"
)

// Assessment ids are UUIDv4; anything else 404s before touching storage.
var assessmentIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-4[0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

type AssessmentController struct {
	submissions *service.SubmissionService
	assessments *service.AssessmentService
	rateLimits  *service.RateLimitService
}

func NewAssessmentController(submissions *service.SubmissionService, assessments *service.AssessmentService,
	rateLimits *service.RateLimitService) *AssessmentController {
	return &AssessmentController{
		submissions: submissions,
		assessments: assessments,
		rateLimits:  rateLimits,
	}
}

// Submit runs the whole submission pipeline for one request: rate limit,
// parse, validate, bot check, persist, score, then fire the results email.
func (ctrl *AssessmentController) Submit(c *gin.Context) {
	ipHash := util.ClientIPHash(c)

	allowed, retryAfter, err := ctrl.rateLimits.SubmitAllowed(ipHash)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	if !allowed {
		monitoring.SubmissionCounter.WithLabelValues("rate_limited").Inc()
		util.RateLimited(c, retryAfter, "Too many submissions. Please try again later.")
		return
	}

	var body validation.SubmissionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		monitoring.SubmissionCounter.WithLabelValues("invalid_json").Inc()
		util.SubmissionFailure(c, http.StatusBadRequest, util.CodeInvalidJSON, "Request body must be valid JSON.")
		return
	}

	if fieldErrors := validation.ValidateSubmission(&body); fieldErrors != nil {
		monitoring.SubmissionCounter.WithLabelValues("validation_failed").Inc()
		util.ValidationFailure(c, fieldErrors)
		return
	}

	outcome, err := ctrl.submissions.Process(c.Request.Context(), &body, ipHash, c.Request.UserAgent())
	switch {
	case errors.Is(err, util.ErrCaptchaFailed):
		monitoring.SubmissionCounter.WithLabelValues("captcha_failed").Inc()
		util.SubmissionFailure(c, http.StatusForbidden, util.CodeCaptchaFailed, "Bot check failed. Please try again.")
		return
	case errors.Is(err, util.ErrPersistence):
		monitoring.SubmissionCounter.WithLabelValues("database_error").Inc()
		util.SubmissionFailure(c, http.StatusInternalServerError, util.CodeDatabaseError, "Failed to save assessment.")
		return
	case err != nil:
		monitoring.SubmissionCounter.WithLabelValues("internal_error").Inc()
		util.LogInternalError(c, err)
		return
	}

	monitoring.SubmissionCounter.WithLabelValues("accepted").Inc()

	resp := gin.H{
		"success":      true,
		"assessmentId": outcome.AssessmentID,
		"redirectUrl":  outcome.RedirectURL,
	}
	if outcome.AIPending {
		resp["aiPending"] = true
	}
	util.Success(c, resp)
}

// Get returns the shaped public view of one assessment.
func (ctrl *AssessmentController) Get(c *gin.Context) {
	id := c.Param("id")
	if !assessmentIDPattern.MatchString(id) {
		util.NotFound(c)
		return
	}

	ipHash := util.ClientIPHash(c)
	allowed, retryAfter, err := ctrl.rateLimits.ReadAllowed(ipHash)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	if !allowed {
		util.RateLimited(c, retryAfter, "Too many requests. Please slow down.")
		return
	}

	view, err := ctrl.assessments.Get(c.Request.Context(), id)
	if errors.Is(err, util.ErrAssessmentNotFound) {
		util.NotFound(c)
		return
	}
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	go ctrl.assessments.RecordView(id, ipHash, c.Request.UserAgent())

	util.Success(c, view)
}

// Claim links an anonymous assessment to the authenticated account.
func (ctrl *AssessmentController) Claim(c *gin.Context) {
	account := util.GetAccountFromContext(c)
	if account == nil {
		util.Unauthorized(c)
		return
	}

	id := c.Param("id")
	if !assessmentIDPattern.MatchString(id) {
		util.NotFound(c)
		return
	}

	err := ctrl.assessments.Claim(id, account.AccountID)
	switch {
	case errors.Is(err, util.ErrAssessmentNotFound):
		util.NotFound(c)
	case errors.Is(err, util.ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": "already_claimed"})
	case err != nil:
		util.LogInternalError(c, err)
	default:
		util.Success(c, gin.H{"success": true})
	}
}
