package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-paywall/internal/adapter"
	"github.com/feral-file/ff-paywall/internal/api/middleware"
	"github.com/feral-file/ff-paywall/internal/api/rest/dto"
	apierrors "github.com/feral-file/ff-paywall/internal/api/shared/errors"
	"github.com/feral-file/ff-paywall/internal/availability"
	"github.com/feral-file/ff-paywall/internal/checkout"
	"github.com/feral-file/ff-paywall/internal/ipn"
	"github.com/feral-file/ff-paywall/internal/logger"
	"github.com/feral-file/ff-paywall/internal/store"
	"github.com/feral-file/ff-paywall/internal/store/schema"
)

// DEFAULT_MAX_IPN_BODY_SIZE caps the webhook body read
const DEFAULT_MAX_IPN_BODY_SIZE = 64 << 10

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// IPN receives PayPal instant payment notifications and always answers an empty 200
	// ANY /availability/condition/paypal/ipn.php
	IPN(c *gin.Context)

	// View renders the payment page of a gated resource
	// GET /availability/condition/paypal/view.php?contextid=<id>&sectionid=<id>&token=<token>
	View(c *gin.Context)

	// CheckAvailability reports whether a user has paid for a resource
	// GET /api/v1/availability/paypal/check?contextid=<id>&sectionid=<id>&userid=<id>&negate=<bool>
	CheckAvailability(c *gin.Context)

	// DescribeAvailability returns the condition text shown to users
	// GET /api/v1/availability/paypal/describe?contextid=<id>&sectionid=<id>&negate=<bool>&full=<bool>
	DescribeAvailability(c *gin.Context)

	// ListTransactions returns a page of the transactions report, newest first
	// GET /api/v1/transactions?courseid=<id>&limit=<25|50|100|500>&offset=<offset>
	ListTransactions(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// Config holds the handler settings
type Config struct {
	WWWRoot        string
	MaxIPNBodySize int64
}

// Dependencies are the collaborators of the handler
type Dependencies struct {
	IPN       ipn.Handler
	Checkout  checkout.Service
	Resolver  availability.Resolver
	Evaluator availability.Evaluator
	Store     store.Store
	IO        adapter.IO
}

type handler struct {
	config Config
	deps   Dependencies
}

// NewHandler creates a new REST API handler
func NewHandler(cfg Config, deps Dependencies) Handler {
	if cfg.MaxIPNBodySize <= 0 {
		cfg.MaxIPNBodySize = DEFAULT_MAX_IPN_BODY_SIZE
	}
	return &handler{config: cfg, deps: deps}
}

func (h *handler) IPN(c *gin.Context) {
	// PayPal may hang up while we verify; finish the notification regardless
	ctx := context.WithoutCancel(c.Request.Context())

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("panic while processing notification: %v", r))
		}
		c.Status(http.StatusOK)
	}()

	body, err := h.deps.IO.ReadAll(c.Request.Body, h.config.MaxIPNBodySize)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to read notification body"))
		return
	}

	outcome := h.deps.IPN.Handle(ctx, ipn.Request{
		Method:   c.Request.Method,
		RawQuery: c.Request.URL.RawQuery,
		Body:     body,
	})

	logger.InfoCtx(ctx, "Notification processed",
		zap.String("result", string(outcome.Result)),
		zap.String("state", string(outcome.State)),
		zap.String("reason", outcome.Reason),
	)
}

func (h *handler) View(c *gin.Context) {
	params, err := ParseViewQuery(c)
	if err != nil {
		h.renderViewError(c, apierrors.NewBadRequestError("Invalid parameters", err.Error()))
		return
	}

	var user *schema.User
	if userID, ok := middleware.CurrentUserID(c); ok {
		user, err = h.deps.Store.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			logger.ErrorCtx(c.Request.Context(), err, zap.Int64("user_id", userID))
			h.renderViewError(c, apierrors.NewInternalError("Failed to load user"))
			return
		}
	}

	page, err := h.deps.Checkout.Prepare(c.Request.Context(), checkout.Request{
		ContextID: params.ContextID,
		SectionID: params.SectionID,
		Token:     params.Token,
		User:      user,
	})
	if err != nil {
		apiErr := apierrors.FromResolveError(err)
		if apiErr.Code == apierrors.ErrCodeInternalError {
			logger.ErrorCtx(c.Request.Context(), err, zap.Int64("context_id", params.ContextID))
		}
		h.renderViewError(c, apiErr)
		return
	}

	if page.Kind == checkout.PageRedirect {
		c.Redirect(http.StatusSeeOther, page.RedirectURL)
		return
	}

	c.HTML(http.StatusOK, viewTemplate, viewData{Title: viewTitle, Page: page, Messages: messages})
}

func (h *handler) renderViewError(c *gin.Context, apiErr *apierrors.APIError) {
	c.HTML(apiErr.Status(), viewTemplate, viewData{Title: viewTitle, Messages: messages, Error: apiErr.Message})
}

func (h *handler) CheckAvailability(c *gin.Context) {
	params, err := ParseCheckAvailabilityQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	res, err := h.deps.Resolver.Resolve(c.Request.Context(), params.ContextID, params.SectionID)
	if err != nil {
		h.respondResolveError(c, err)
		return
	}

	info := availability.ContextInfo{ContextID: res.Context.ID, SectionID: res.SectionID}
	available, err := h.deps.Evaluator.IsAvailable(c.Request.Context(), negation(params.Negate, res), info, params.UserID)
	if err != nil {
		respondInternalError(c, err, "Failed to check availability")
		return
	}

	c.JSON(http.StatusOK, dto.AvailabilityResponse{Available: available})
}

func (h *handler) DescribeAvailability(c *gin.Context) {
	params, err := ParseDescribeQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	res, err := h.deps.Resolver.Resolve(c.Request.Context(), params.ContextID, params.SectionID)
	if err != nil {
		h.respondResolveError(c, err)
		return
	}

	info := availability.ContextInfo{ContextID: res.Context.ID, SectionID: res.SectionID}
	c.JSON(http.StatusOK, dto.DescriptionResponse{
		Description: h.deps.Evaluator.Describe(params.Full, negation(params.Negate, res), info),
	})
}

// negation uses the caller's negate flag, falling back to the negation of the condition's place in the tree
func negation(negate *bool, res *availability.Resource) bool {
	if negate != nil {
		return *negate
	}
	return res.Negated
}

func (h *handler) respondResolveError(c *gin.Context, err error) {
	apiErr := apierrors.FromResolveError(err)
	if apiErr.Code == apierrors.ErrCodeInternalError {
		respondInternalError(c, err, apiErr.Message)
		return
	}
	respondError(c, apiErr)
}

func (h *handler) ListTransactions(c *gin.Context) {
	params, err := ParseListTransactionsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := params.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	rows, total, err := h.deps.Store.ListTransactions(c.Request.Context(), store.TransactionListQuery{
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		respondInternalError(c, err, "Failed to list transactions")
		return
	}

	items := make([]dto.TransactionResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.NewTransactionResponse(row, h.config.WWWRoot, params.CourseID))
	}

	c.JSON(http.StatusOK, dto.TransactionListResponse{
		Items:  items,
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Service: "ff-paywall-api"})
}
