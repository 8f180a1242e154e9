// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/usecase/sync"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/integration/entrypoint/dto"
)

// SyncController handles bank feed sync endpoints.
type SyncController struct {
	triggerUseCase   *sync.TriggerSyncUseCase
	previewUseCase   *sync.PreviewSyncUseCase
	getStatusUseCase *sync.GetStatusUseCase
	listRunsUseCase  *sync.ListRunsUseCase
	getRunUseCase    *sync.GetRunUseCase
}

// NewSyncController creates a new sync controller instance.
func NewSyncController(
	triggerUseCase *sync.TriggerSyncUseCase,
	previewUseCase *sync.PreviewSyncUseCase,
	getStatusUseCase *sync.GetStatusUseCase,
	listRunsUseCase *sync.ListRunsUseCase,
	getRunUseCase *sync.GetRunUseCase,
) *SyncController {
	return &SyncController{
		triggerUseCase:   triggerUseCase,
		previewUseCase:   previewUseCase,
		getStatusUseCase: getStatusUseCase,
		listRunsUseCase:  listRunsUseCase,
		getRunUseCase:    getRunUseCase,
	}
}

// Trigger handles POST /sync/trigger requests.
func (c *SyncController) Trigger(ctx *gin.Context) {
	input := sync.TriggerSyncInput{}

	// The body is optional; an empty trigger syncs every enabled link.
	var req dto.TriggerSyncRequest
	if err := ctx.ShouldBindJSON(&req); err == nil && req.AccountLinkID != nil {
		accountLinkID, err := uuid.Parse(*req.AccountLinkID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid account link ID format",
			})
			return
		}
		input.AccountLinkID = &accountLinkID
	}

	output, err := c.triggerUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleSyncError(ctx, err)
		return
	}

	response := dto.ToTriggerSyncResponse(output)
	ctx.JSON(http.StatusAccepted, response)
}

// Preview handles POST /sync/preview requests.
func (c *SyncController) Preview(ctx *gin.Context) {
	var req dto.PreviewSyncRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	accountLinkID, err := uuid.Parse(req.AccountLinkID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid account link ID format",
		})
		return
	}

	input := sync.PreviewSyncInput{AccountLinkID: accountLinkID}
	output, err := c.previewUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleSyncError(ctx, err)
		return
	}

	response := dto.ToSyncPreviewResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// GetStatus handles GET /sync/status requests.
func (c *SyncController) GetStatus(ctx *gin.Context) {
	output, err := c.getStatusUseCase.Execute(ctx.Request.Context(), sync.GetStatusInput{})
	if err != nil {
		c.handleSyncError(ctx, err)
		return
	}

	response := dto.ToSyncStatusResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// ListRuns handles GET /sync/runs requests.
func (c *SyncController) ListRuns(ctx *gin.Context) {
	input := sync.ListRunsInput{}

	if accountLinkIDStr := ctx.Query("account_link_id"); accountLinkIDStr != "" {
		accountLinkID, err := uuid.Parse(accountLinkIDStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid account link ID format",
			})
			return
		}
		input.AccountLinkID = &accountLinkID
	}

	if limitStr := ctx.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			input.Limit = limit
		}
	}

	output, err := c.listRunsUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleSyncError(ctx, err)
		return
	}

	response := dto.ToSyncRunListResponse(output.Runs)
	ctx.JSON(http.StatusOK, response)
}

// GetRun handles GET /sync/runs/:id requests.
func (c *SyncController) GetRun(ctx *gin.Context) {
	runID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid sync run ID format",
		})
		return
	}

	input := sync.GetRunInput{ID: runID}
	output, err := c.getRunUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleSyncError(ctx, err)
		return
	}

	response := dto.ToSyncRunResponse(output.Run)
	ctx.JSON(http.StatusOK, response)
}

// handleSyncError handles sync errors and returns appropriate HTTP responses.
func (c *SyncController) handleSyncError(ctx *gin.Context, err error) {
	var syncErr *domainerror.SyncError
	if errors.As(err, &syncErr) {
		statusCode := c.getStatusCodeForSyncError(syncErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: syncErr.Message,
			Code:  string(syncErr.Code),
		})
		return
	}

	var linkErr *domainerror.LinkError
	if errors.As(err, &linkErr) {
		statusCode := http.StatusConflict
		if linkErr.Code == domainerror.ErrCodeAccountLinkNotFound {
			statusCode = http.StatusNotFound
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: linkErr.Message,
			Code:  string(linkErr.Code),
		})
		return
	}

	var feedErr *domainerror.FeedError
	if errors.As(err, &feedErr) {
		statusCode := getStatusCodeForFeedError(feedErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: feedErr.Message,
			Code:  string(feedErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForSyncError maps sync error codes to HTTP status codes.
func (c *SyncController) getStatusCodeForSyncError(code domainerror.SyncErrorCode) int {
	switch code {
	case domainerror.ErrCodeSyncRunNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeSyncAlreadyRunning,
		domainerror.ErrCodeNothingToSync,
		domainerror.ErrCodeAmountConflict,
		domainerror.ErrCodeCurrencyMismatch:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
