// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/usecase/suggestion"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/integration/entrypoint/dto"
)

// SuggestionController handles AI account suggestion endpoints.
type SuggestionController struct {
	startUseCase     *suggestion.StartSuggestionsUseCase
	getStatusUseCase *suggestion.GetStatusUseCase
	listUseCase      *suggestion.ListSuggestionsUseCase
	approveUseCase   *suggestion.ApproveSuggestionUseCase
	rejectUseCase    *suggestion.RejectSuggestionUseCase
	clearUseCase     *suggestion.ClearSuggestionsUseCase
}

// NewSuggestionController creates a new suggestion controller instance.
func NewSuggestionController(
	startUseCase *suggestion.StartSuggestionsUseCase,
	getStatusUseCase *suggestion.GetStatusUseCase,
	listUseCase *suggestion.ListSuggestionsUseCase,
	approveUseCase *suggestion.ApproveSuggestionUseCase,
	rejectUseCase *suggestion.RejectSuggestionUseCase,
	clearUseCase *suggestion.ClearSuggestionsUseCase,
) *SuggestionController {
	return &SuggestionController{
		startUseCase:     startUseCase,
		getStatusUseCase: getStatusUseCase,
		listUseCase:      listUseCase,
		approveUseCase:   approveUseCase,
		rejectUseCase:    rejectUseCase,
		clearUseCase:     clearUseCase,
	}
}

// Start handles POST /ai/suggestions/start requests.
func (c *SuggestionController) Start(ctx *gin.Context) {
	output, err := c.startUseCase.Execute(ctx.Request.Context(), suggestion.StartSuggestionsInput{})
	if err != nil {
		c.handleSuggestionError(ctx, err)
		return
	}

	response := dto.ToStartSuggestionsResponse(output)
	ctx.JSON(http.StatusAccepted, response)
}

// GetStatus handles GET /ai/suggestions/status requests.
func (c *SuggestionController) GetStatus(ctx *gin.Context) {
	output, err := c.getStatusUseCase.Execute(ctx.Request.Context(), suggestion.GetStatusInput{})
	if err != nil {
		c.handleSuggestionError(ctx, err)
		return
	}

	response := dto.ToSuggestionStatusResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// List handles GET /ai/suggestions requests.
func (c *SuggestionController) List(ctx *gin.Context) {
	output, err := c.listUseCase.Execute(ctx.Request.Context(), suggestion.ListSuggestionsInput{})
	if err != nil {
		c.handleSuggestionError(ctx, err)
		return
	}

	response := dto.ToSuggestionListResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// Approve handles POST /ai/suggestions/:id/approve requests.
func (c *SuggestionController) Approve(ctx *gin.Context) {
	suggestionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid suggestion ID format",
		})
		return
	}

	input := suggestion.ApproveSuggestionInput{SuggestionID: suggestionID}
	output, err := c.approveUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleSuggestionError(ctx, err)
		return
	}

	response := dto.ToApproveSuggestionResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// Reject handles POST /ai/suggestions/:id/reject requests.
func (c *SuggestionController) Reject(ctx *gin.Context) {
	suggestionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid suggestion ID format",
		})
		return
	}

	var req dto.RejectSuggestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	input := suggestion.RejectSuggestionInput{
		SuggestionID: suggestionID,
		Action:       suggestion.RejectAction(req.Action),
		RetryReason:  req.RetryReason,
	}

	output, err := c.rejectUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleSuggestionError(ctx, err)
		return
	}

	response := dto.ToRejectSuggestionResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// Clear handles DELETE /ai/suggestions requests.
func (c *SuggestionController) Clear(ctx *gin.Context) {
	output, err := c.clearUseCase.Execute(ctx.Request.Context(), suggestion.ClearSuggestionsInput{})
	if err != nil {
		c.handleSuggestionError(ctx, err)
		return
	}

	response := dto.ToClearSuggestionsResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// handleSuggestionError handles suggestion errors and returns appropriate HTTP responses.
func (c *SuggestionController) handleSuggestionError(ctx *gin.Context, err error) {
	var aiErr *domainerror.AISuggestionError
	if errors.As(err, &aiErr) {
		statusCode := c.getStatusCodeForSuggestionError(aiErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: aiErr.Message,
			Code:  string(aiErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForSuggestionError maps suggestion error codes to HTTP status codes.
func (c *SuggestionController) getStatusCodeForSuggestionError(code domainerror.AISuggestionErrorCode) int {
	switch code {
	case domainerror.ErrCodeAISuggestionNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeAIAlreadyProcessing,
		domainerror.ErrCodeAIPatternConflict,
		domainerror.ErrCodeAISuggestionAlreadyProcessed:
		return http.StatusConflict
	case domainerror.ErrCodeAINoImbalance,
		domainerror.ErrCodeAIInvalidMatchType,
		domainerror.ErrCodeAIEmptyKeyword,
		domainerror.ErrCodeAIInvalidAction:
		return http.StatusBadRequest
	case domainerror.ErrCodeAIRateLimited:
		return http.StatusTooManyRequests
	case domainerror.ErrCodeAIServiceError,
		domainerror.ErrCodeAIRetryFailed,
		domainerror.ErrCodeAIInvalidConfig:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
