// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/usecase/discrepancy"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/integration/entrypoint/dto"
)

// DiscrepancyController handles balance discrepancy endpoints.
type DiscrepancyController struct {
	listUseCase    *discrepancy.ListDiscrepanciesUseCase
	resolveUseCase *discrepancy.ResolveDiscrepancyUseCase
	ignoreUseCase  *discrepancy.IgnoreDiscrepancyUseCase
}

// NewDiscrepancyController creates a new discrepancy controller instance.
func NewDiscrepancyController(
	listUseCase *discrepancy.ListDiscrepanciesUseCase,
	resolveUseCase *discrepancy.ResolveDiscrepancyUseCase,
	ignoreUseCase *discrepancy.IgnoreDiscrepancyUseCase,
) *DiscrepancyController {
	return &DiscrepancyController{
		listUseCase:    listUseCase,
		resolveUseCase: resolveUseCase,
		ignoreUseCase:  ignoreUseCase,
	}
}

// List handles GET /discrepancies requests.
func (c *DiscrepancyController) List(ctx *gin.Context) {
	input := discrepancy.ListDiscrepanciesInput{
		Status: ctx.Query("status"),
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleDiscrepancyError(ctx, err)
		return
	}

	response := dto.ToDiscrepancyListResponse(output.Discrepancies, output.OpenCount)
	ctx.JSON(http.StatusOK, response)
}

// Resolve handles POST /discrepancies/:id/resolve requests.
func (c *DiscrepancyController) Resolve(ctx *gin.Context) {
	discrepancyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid discrepancy ID format",
		})
		return
	}

	var req dto.ResolveDiscrepancyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	input := discrepancy.ResolveDiscrepancyInput{
		DiscrepancyID: discrepancyID,
		Note:          req.Note,
	}

	output, err := c.resolveUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleDiscrepancyError(ctx, err)
		return
	}

	response := dto.ToDiscrepancyResponse(output.Discrepancy)
	ctx.JSON(http.StatusOK, response)
}

// Ignore handles POST /discrepancies/:id/ignore requests.
func (c *DiscrepancyController) Ignore(ctx *gin.Context) {
	discrepancyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid discrepancy ID format",
		})
		return
	}

	var req dto.IgnoreDiscrepancyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	input := discrepancy.IgnoreDiscrepancyInput{
		DiscrepancyID: discrepancyID,
		Note:          req.Note,
	}

	output, err := c.ignoreUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleDiscrepancyError(ctx, err)
		return
	}

	response := dto.ToDiscrepancyResponse(output.Discrepancy)
	ctx.JSON(http.StatusOK, response)
}

// handleDiscrepancyError handles discrepancy errors and returns appropriate HTTP responses.
func (c *DiscrepancyController) handleDiscrepancyError(ctx *gin.Context, err error) {
	var syncErr *domainerror.SyncError
	if errors.As(err, &syncErr) {
		statusCode := c.getStatusCodeForDiscrepancyError(syncErr.Code)
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

// getStatusCodeForDiscrepancyError maps discrepancy error codes to HTTP status codes.
func (c *DiscrepancyController) getStatusCodeForDiscrepancyError(code domainerror.SyncErrorCode) int {
	switch code {
	case domainerror.ErrCodeDiscrepancyNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeDiscrepancyClosed:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidDiscrepancyStatus:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
