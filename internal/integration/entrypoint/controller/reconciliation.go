// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/application/usecase/reconciliation"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/integration/entrypoint/dto"
)

// ReconciliationController handles reconciliation review endpoints.
type ReconciliationController struct {
	getPendingUseCase    *reconciliation.GetPendingUseCase
	getLinkedUseCase     *reconciliation.GetLinkedUseCase
	getSummaryUseCase    *reconciliation.GetSummaryUseCase
	manualLinkUseCase    *reconciliation.ManualLinkUseCase
	unlinkUseCase        *reconciliation.UnlinkUseCase
	getCandidatesUseCase *reconciliation.GetCandidatesUseCase
}

// NewReconciliationController creates a new reconciliation controller instance.
func NewReconciliationController(
	getPendingUseCase *reconciliation.GetPendingUseCase,
	getLinkedUseCase *reconciliation.GetLinkedUseCase,
	getSummaryUseCase *reconciliation.GetSummaryUseCase,
	manualLinkUseCase *reconciliation.ManualLinkUseCase,
	unlinkUseCase *reconciliation.UnlinkUseCase,
	getCandidatesUseCase *reconciliation.GetCandidatesUseCase,
) *ReconciliationController {
	return &ReconciliationController{
		getPendingUseCase:    getPendingUseCase,
		getLinkedUseCase:     getLinkedUseCase,
		getSummaryUseCase:    getSummaryUseCase,
		manualLinkUseCase:    manualLinkUseCase,
		unlinkUseCase:        unlinkUseCase,
		getCandidatesUseCase: getCandidatesUseCase,
	}
}

// GetPending handles GET /reconciliation/pending requests.
func (c *ReconciliationController) GetPending(ctx *gin.Context) {
	input := reconciliation.GetPendingInput{}
	if !c.parseListingParams(ctx, &input.AccountID, &input.Limit, &input.Offset) {
		return
	}

	output, err := c.getPendingUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	response := dto.ToGetPendingResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// GetLinked handles GET /reconciliation/linked requests.
func (c *ReconciliationController) GetLinked(ctx *gin.Context) {
	input := reconciliation.GetLinkedInput{}
	if !c.parseListingParams(ctx, &input.AccountID, &input.Limit, &input.Offset) {
		return
	}

	output, err := c.getLinkedUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	response := dto.ToGetLinkedResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// GetSummary handles GET /reconciliation/summary requests.
func (c *ReconciliationController) GetSummary(ctx *gin.Context) {
	output, err := c.getSummaryUseCase.Execute(ctx.Request.Context(), reconciliation.GetSummaryInput{})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	response := dto.ToReconciliationSummaryResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// ManualLink handles POST /reconciliation/link requests.
func (c *ReconciliationController) ManualLink(ctx *gin.Context) {
	var req dto.ManualLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	splitID, err := uuid.Parse(req.SplitID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid split ID format",
		})
		return
	}

	input := reconciliation.ManualLinkInput{
		SplitID:      splitID,
		ExternalID:   req.ExternalID,
		Counterparty: req.Counterparty,
		FeedAmount:   decimal.NewFromFloat(req.FeedAmount),
		Force:        req.Force,
	}

	output, err := c.manualLinkUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	response := dto.ToManualLinkResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// Unlink handles POST /reconciliation/unlink requests.
func (c *ReconciliationController) Unlink(ctx *gin.Context) {
	var req dto.UnlinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	splitID, err := uuid.Parse(req.SplitID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid split ID format",
		})
		return
	}

	input := reconciliation.UnlinkInput{SplitID: splitID}
	output, err := c.unlinkUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	response := dto.ToUnlinkResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// GetCandidates handles GET /reconciliation/candidates/:splitId requests.
func (c *ReconciliationController) GetCandidates(ctx *gin.Context) {
	splitID, err := uuid.Parse(ctx.Param("splitId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid split ID format",
		})
		return
	}

	input := reconciliation.GetCandidatesInput{SplitID: splitID}
	output, err := c.getCandidatesUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	response := dto.ToCandidateListResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// parseListingParams extracts the shared account/limit/offset query
// parameters. It writes the error response itself and reports success
// through the boolean.
func (c *ReconciliationController) parseListingParams(ctx *gin.Context, accountID **uuid.UUID, limit, offset *int) bool {
	if accountIDStr := ctx.Query("account_id"); accountIDStr != "" {
		parsed, err := uuid.Parse(accountIDStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid account ID format",
			})
			return false
		}
		*accountID = &parsed
	}

	if limitStr := ctx.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			*limit = parsed
		}
	}
	if offsetStr := ctx.Query("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil {
			*offset = parsed
		}
	}

	return true
}

// handleReconciliationError handles reconciliation errors and returns appropriate HTTP responses.
func (c *ReconciliationController) handleReconciliationError(ctx *gin.Context, err error) {
	var txnErr *domainerror.TransactionError
	if errors.As(err, &txnErr) {
		statusCode := c.getStatusCodeForReconciliationError(txnErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: txnErr.Message,
			Code:  string(txnErr.Code),
		})
		return
	}

	var syncErr *domainerror.SyncError
	if errors.As(err, &syncErr) {
		statusCode := http.StatusInternalServerError
		if syncErr.Code == domainerror.ErrCodeAmountConflict {
			statusCode = http.StatusConflict
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: syncErr.Message,
			Code:  string(syncErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForReconciliationError maps transaction error codes raised by
// reconciliation operations to HTTP status codes.
func (c *ReconciliationController) getStatusCodeForReconciliationError(code domainerror.TransactionErrorCode) int {
	switch code {
	case domainerror.ErrCodeTransactionNotFound,
		domainerror.ErrCodeSplitNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeExternalIDTaken,
		domainerror.ErrCodeSplitReconciled,
		domainerror.ErrCodeSplitAlreadyLinked,
		domainerror.ErrCodeSplitNotLinked:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidSplitAmount,
		domainerror.ErrCodeMissingTransactionField:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
