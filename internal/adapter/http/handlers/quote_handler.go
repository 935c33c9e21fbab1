package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	request "construmax/internal/adapter/http/dto/request"
	response "construmax/internal/adapter/http/dto/response"
	"construmax/internal/domain/entities"
	"construmax/internal/usecase"
	"construmax/internal/usecase/interfaces"
	"construmax/pkg"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var errInvalidQuotePayload = pkg.NewDomainErrorSimple("VALIDATION_ERROR", "Invalid quote payload", http.StatusBadRequest)

// QuoteHandler handles HTTP requests for quote requests.
type QuoteHandler struct {
	usecase usecase.IQuoteUseCase
}

func NewQuoteHandler(uc usecase.IQuoteUseCase) *QuoteHandler {
	return &QuoteHandler{usecase: uc}
}

// CreateQuote accepts a customer intake payload, persists the quote and
// returns it with status=pending. Notification delivery runs detached; its
// outcome is visible on later reads via email_status.
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var payload request.CreateQuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		appErr := errInvalidQuotePayload.WithDetails(bindingViolations(err)...)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	quote, err := h.usecase.CreateQuote(c.Request.Context(), payload.ToCommand())
	if err != nil {
		log.Printf("[quote][handler] create failed err=%v", err)
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[quote][handler] create success quote_id=%s", quote.ID)

	c.JSON(http.StatusCreated, response.FromQuote(quote))
}

// ListQuotes returns the admin view: optional status filter, newest|oldest
// sort, page/limit pagination.
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := interfaces.ListQuotesFilter{
		SortNewestFirst: c.DefaultQuery("sort", "newest") != "oldest",
		Skip:            (page - 1) * limit,
		Limit:           limit,
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		filter.Status = entities.QuoteStatus(strings.ToLower(status))
	}

	items, total, err := h.usecase.List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("[quote][handler] list failed err=%v", err)
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromQuoteList(items, total, page, limit))
}

func (h *QuoteHandler) GetQuote(c *gin.Context) {
	id := c.Param("id")

	quote, err := h.usecase.GetByID(c.Request.Context(), id)
	if err != nil {
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromQuote(quote))
}

// UpdateQuoteStatus applies an admin workflow transition. Success reflects
// persistence only: a notification failure afterwards never surfaces here.
func (h *QuoteHandler) UpdateQuoteStatus(c *gin.Context) {
	id := c.Param("id")

	var payload request.UpdateQuoteStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		appErr := errInvalidQuotePayload.WithDetails(bindingViolations(err)...)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	quote, err := h.usecase.UpdateStatus(c.Request.Context(), id, payload.ResolveStatus(), payload.AdminNotes)
	if err != nil {
		log.Printf("[quote][handler] status update failed quote_id=%s status=%s err=%v", id, payload.Status, err)
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[quote][handler] status update success quote_id=%s status=%s", quote.ID, quote.Status)

	c.JSON(http.StatusOK, response.FromQuote(quote))
}

func mapQuoteError(err error) *pkg.AppError {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		return errInvalidQuotePayload.WithDetails(verr.Fields...)
	case errors.Is(err, usecase.ErrInvalidQuoteID), errors.Is(err, usecase.ErrInvalidStatus):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrProductNotFound):
		return pkg.NewDomainError("PRODUCT_NOT_FOUND", "Referenced product does not exist", err, http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrQuoteNotFound):
		return pkg.NewDomainErrorSimple("QUOTE_NOT_FOUND", "Quote not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return pkg.NewDomainError("INVALID_TRANSITION", "Status transition not permitted", err, http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

// bindingViolations flattens a gin binding error into one line per violated
// field so the rejection names all of them, not just the first.
func bindingViolations(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, strings.ToLower(fe.Field())+": failed on "+fe.Tag())
	}
	return out
}
