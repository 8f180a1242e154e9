// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/usecase/payeerule"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/integration/entrypoint/dto"
)

// PayeeRuleController handles payee rule endpoints.
type PayeeRuleController struct {
	listUseCase    *payeerule.ListPayeeRulesUseCase
	createUseCase  *payeerule.CreatePayeeRuleUseCase
	updateUseCase  *payeerule.UpdatePayeeRuleUseCase
	deleteUseCase  *payeerule.DeletePayeeRuleUseCase
	reorderUseCase *payeerule.ReorderPayeeRulesUseCase
	testUseCase    *payeerule.TestPatternUseCase
}

// NewPayeeRuleController creates a new payee rule controller instance.
func NewPayeeRuleController(
	listUseCase *payeerule.ListPayeeRulesUseCase,
	createUseCase *payeerule.CreatePayeeRuleUseCase,
	updateUseCase *payeerule.UpdatePayeeRuleUseCase,
	deleteUseCase *payeerule.DeletePayeeRuleUseCase,
	reorderUseCase *payeerule.ReorderPayeeRulesUseCase,
	testUseCase *payeerule.TestPatternUseCase,
) *PayeeRuleController {
	return &PayeeRuleController{
		listUseCase:    listUseCase,
		createUseCase:  createUseCase,
		updateUseCase:  updateUseCase,
		deleteUseCase:  deleteUseCase,
		reorderUseCase: reorderUseCase,
		testUseCase:    testUseCase,
	}
}

// List handles GET /payee-rules requests.
func (c *PayeeRuleController) List(ctx *gin.Context) {
	input := payeerule.ListPayeeRulesInput{
		ActiveOnly: ctx.Query("active_only") == "true",
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handlePayeeRuleError(ctx, err)
		return
	}

	response := dto.ToPayeeRuleListResponse(output.Rules)
	ctx.JSON(http.StatusOK, response)
}

// Create handles POST /payee-rules requests.
func (c *PayeeRuleController) Create(ctx *gin.Context) {
	var req dto.CreatePayeeRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid account ID format",
		})
		return
	}

	input := payeerule.CreatePayeeRuleInput{
		Pattern:     req.Pattern,
		AccountID:   accountID,
		Description: req.Description,
		Priority:    req.Priority,
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handlePayeeRuleError(ctx, err)
		return
	}

	response := dto.ToPayeeRuleResponse(output.Rule)
	ctx.JSON(http.StatusCreated, response)
}

// Update handles PATCH /payee-rules/:id requests.
func (c *PayeeRuleController) Update(ctx *gin.Context) {
	ruleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid rule ID format",
		})
		return
	}

	var req dto.UpdatePayeeRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	input := payeerule.UpdatePayeeRuleInput{
		RuleID:      ruleID,
		Pattern:     req.Pattern,
		Description: req.Description,
		Priority:    req.Priority,
		IsActive:    req.IsActive,
	}

	if req.AccountID != nil {
		accountID, err := uuid.Parse(*req.AccountID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid account ID format",
			})
			return
		}
		input.AccountID = &accountID
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handlePayeeRuleError(ctx, err)
		return
	}

	response := dto.ToPayeeRuleResponse(output.Rule)
	ctx.JSON(http.StatusOK, response)
}

// Delete handles DELETE /payee-rules/:id requests.
func (c *PayeeRuleController) Delete(ctx *gin.Context) {
	ruleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid rule ID format",
		})
		return
	}

	input := payeerule.DeletePayeeRuleInput{RuleID: ruleID}
	if _, err := c.deleteUseCase.Execute(ctx.Request.Context(), input); err != nil {
		c.handlePayeeRuleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Payee rule deleted successfully"})
}

// Reorder handles PATCH /payee-rules/reorder requests.
func (c *PayeeRuleController) Reorder(ctx *gin.Context) {
	var req dto.ReorderPayeeRulesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	input := payeerule.ReorderPayeeRulesInput{
		Order: make([]payeerule.RulePriorityInput, 0, len(req.Order)),
	}
	for _, item := range req.Order {
		ruleID, err := uuid.Parse(item.ID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid rule ID format",
			})
			return
		}
		input.Order = append(input.Order, payeerule.RulePriorityInput{
			ID:       ruleID,
			Priority: item.Priority,
		})
	}

	output, err := c.reorderUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handlePayeeRuleError(ctx, err)
		return
	}

	response := dto.ToPayeeRuleListResponse(output.Rules)
	ctx.JSON(http.StatusOK, response)
}

// Test handles POST /payee-rules/test requests.
func (c *PayeeRuleController) Test(ctx *gin.Context) {
	var req dto.TestPatternRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	input := payeerule.TestPatternInput{
		Pattern: req.Pattern,
		Limit:   req.Limit,
	}

	output, err := c.testUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handlePayeeRuleError(ctx, err)
		return
	}

	response := dto.ToTestPatternResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// handlePayeeRuleError handles payee rule errors and returns appropriate HTTP responses.
func (c *PayeeRuleController) handlePayeeRuleError(ctx *gin.Context, err error) {
	var ruleErr *domainerror.PayeeRuleError
	if errors.As(err, &ruleErr) {
		statusCode := c.getStatusCodeForPayeeRuleError(ruleErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: ruleErr.Message,
			Code:  string(ruleErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForPayeeRuleError maps payee rule error codes to HTTP status codes.
func (c *PayeeRuleController) getStatusCodeForPayeeRuleError(code domainerror.PayeeRuleErrorCode) int {
	switch code {
	case domainerror.ErrCodePayeeRuleNotFound,
		domainerror.ErrCodeAccountNotFoundForRule:
		return http.StatusNotFound
	case domainerror.ErrCodePayeeRulePatternExists:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidPattern,
		domainerror.ErrCodePatternTooLong,
		domainerror.ErrCodeMissingRuleFields,
		domainerror.ErrCodeInvalidPriority:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
