// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/usecase/linking"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/integration/entrypoint/dto"
)

// LinkingController handles institution, requisition and account link endpoints.
type LinkingController struct {
	listInstitutionsUseCase  *linking.ListInstitutionsUseCase
	createRequisitionUseCase *linking.CreateRequisitionUseCase
	listRequisitionsUseCase  *linking.ListRequisitionsUseCase
	getRequisitionUseCase    *linking.GetRequisitionUseCase
	deleteRequisitionUseCase *linking.DeleteRequisitionUseCase
	createLinkUseCase        *linking.CreateLinkUseCase
	listLinksUseCase         *linking.ListLinksUseCase
	updateLinkUseCase        *linking.UpdateLinkUseCase
	deleteLinkUseCase        *linking.DeleteLinkUseCase
}

// NewLinkingController creates a new linking controller instance.
func NewLinkingController(
	listInstitutionsUseCase *linking.ListInstitutionsUseCase,
	createRequisitionUseCase *linking.CreateRequisitionUseCase,
	listRequisitionsUseCase *linking.ListRequisitionsUseCase,
	getRequisitionUseCase *linking.GetRequisitionUseCase,
	deleteRequisitionUseCase *linking.DeleteRequisitionUseCase,
	createLinkUseCase *linking.CreateLinkUseCase,
	listLinksUseCase *linking.ListLinksUseCase,
	updateLinkUseCase *linking.UpdateLinkUseCase,
	deleteLinkUseCase *linking.DeleteLinkUseCase,
) *LinkingController {
	return &LinkingController{
		listInstitutionsUseCase:  listInstitutionsUseCase,
		createRequisitionUseCase: createRequisitionUseCase,
		listRequisitionsUseCase:  listRequisitionsUseCase,
		getRequisitionUseCase:    getRequisitionUseCase,
		deleteRequisitionUseCase: deleteRequisitionUseCase,
		createLinkUseCase:        createLinkUseCase,
		listLinksUseCase:         listLinksUseCase,
		updateLinkUseCase:        updateLinkUseCase,
		deleteLinkUseCase:        deleteLinkUseCase,
	}
}

// ListInstitutions handles GET /institutions requests.
func (c *LinkingController) ListInstitutions(ctx *gin.Context) {
	input := linking.ListInstitutionsInput{
		CountryCode: ctx.Query("country"),
	}

	output, err := c.listInstitutionsUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleLinkingError(ctx, err)
		return
	}

	response := dto.ToInstitutionListResponse(output.Institutions, output.FromCache)
	ctx.JSON(http.StatusOK, response)
}

// CreateRequisition handles POST /requisitions requests.
func (c *LinkingController) CreateRequisition(ctx *gin.Context) {
	var req dto.CreateRequisitionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	input := linking.CreateRequisitionInput{
		InstitutionID: req.InstitutionID,
		RedirectURL:   req.RedirectURL,
	}

	output, err := c.createRequisitionUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleLinkingError(ctx, err)
		return
	}

	response := dto.ToRequisitionResponse(output.Requisition)
	ctx.JSON(http.StatusCreated, response)
}

// ListRequisitions handles GET /requisitions requests.
func (c *LinkingController) ListRequisitions(ctx *gin.Context) {
	output, err := c.listRequisitionsUseCase.Execute(ctx.Request.Context(), linking.ListRequisitionsInput{})
	if err != nil {
		c.handleLinkingError(ctx, err)
		return
	}

	response := dto.ToRequisitionListResponse(output.Requisitions)
	ctx.JSON(http.StatusOK, response)
}

// GetRequisition handles GET /requisitions/:id requests.
func (c *LinkingController) GetRequisition(ctx *gin.Context) {
	requisitionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid requisition ID format",
		})
		return
	}

	input := linking.GetRequisitionInput{RequisitionID: requisitionID}
	output, err := c.getRequisitionUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleLinkingError(ctx, err)
		return
	}

	response := dto.ToRequisitionDetailResponse(output.Requisition, output.LinkedBankAccounts)
	ctx.JSON(http.StatusOK, response)
}

// DeleteRequisition handles DELETE /requisitions/:id requests.
func (c *LinkingController) DeleteRequisition(ctx *gin.Context) {
	requisitionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid requisition ID format",
		})
		return
	}

	input := linking.DeleteRequisitionInput{RequisitionID: requisitionID}
	if _, err := c.deleteRequisitionUseCase.Execute(ctx.Request.Context(), input); err != nil {
		c.handleLinkingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Requisition deleted successfully"})
}

// CreateLink handles POST /links requests.
func (c *LinkingController) CreateLink(ctx *gin.Context) {
	var req dto.CreateLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	input := linking.CreateLinkInput{
		BankAccountID:     req.BankAccountID,
		LedgerAccountPath: req.LedgerAccountPath,
		Alias:             req.Alias,
		DateBasis:         req.DateBasis,
	}

	if req.LedgerAccountID != nil {
		ledgerAccountID, err := uuid.Parse(*req.LedgerAccountID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid ledger account ID format",
			})
			return
		}
		input.LedgerAccountID = &ledgerAccountID
	}

	output, err := c.createLinkUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleLinkingError(ctx, err)
		return
	}

	response := dto.ToAccountLinkResponse(output.Link)
	ctx.JSON(http.StatusCreated, response)
}

// ListLinks handles GET /links requests.
func (c *LinkingController) ListLinks(ctx *gin.Context) {
	output, err := c.listLinksUseCase.Execute(ctx.Request.Context(), linking.ListLinksInput{})
	if err != nil {
		c.handleLinkingError(ctx, err)
		return
	}

	response := dto.ToAccountLinkListResponse(output.Links)
	ctx.JSON(http.StatusOK, response)
}

// UpdateLink handles PATCH /links/:id requests.
func (c *LinkingController) UpdateLink(ctx *gin.Context) {
	linkID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid link ID format",
		})
		return
	}

	var req dto.UpdateLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	input := linking.UpdateLinkInput{
		LinkID:      linkID,
		Alias:       req.Alias,
		DateBasis:   req.DateBasis,
		SyncEnabled: req.SyncEnabled,
	}

	output, err := c.updateLinkUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleLinkingError(ctx, err)
		return
	}

	response := dto.ToAccountLinkResponse(output.Link)
	ctx.JSON(http.StatusOK, response)
}

// DeleteLink handles DELETE /links/:id requests.
func (c *LinkingController) DeleteLink(ctx *gin.Context) {
	linkID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid link ID format",
		})
		return
	}

	input := linking.DeleteLinkInput{LinkID: linkID}
	if _, err := c.deleteLinkUseCase.Execute(ctx.Request.Context(), input); err != nil {
		c.handleLinkingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Account link deleted successfully"})
}

// handleLinkingError handles link and feed errors and returns appropriate HTTP responses.
func (c *LinkingController) handleLinkingError(ctx *gin.Context, err error) {
	var linkErr *domainerror.LinkError
	if errors.As(err, &linkErr) {
		statusCode := c.getStatusCodeForLinkError(linkErr.Code)
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

	var accErr *domainerror.AccountError
	if errors.As(err, &accErr) {
		statusCode := http.StatusBadRequest
		if accErr.Code == domainerror.ErrCodeAccountNotFound {
			statusCode = http.StatusNotFound
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: accErr.Message,
			Code:  string(accErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForLinkError maps link error codes to HTTP status codes.
func (c *LinkingController) getStatusCodeForLinkError(code domainerror.LinkErrorCode) int {
	switch code {
	case domainerror.ErrCodeAccountLinkNotFound,
		domainerror.ErrCodeLinkAccountNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeBankAccountAlreadyLinked,
		domainerror.ErrCodeLedgerAccountAlreadyLinked,
		domainerror.ErrCodeSyncDisabled:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidDateBasis,
		domainerror.ErrCodeBankAccountNotInRequisition:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForFeedError maps feed error codes to HTTP status codes. Shared
// between the linking and sync controllers, which both talk to the provider.
func getStatusCodeForFeedError(code domainerror.FeedErrorCode) int {
	switch code {
	case domainerror.ErrCodeRequisitionNotFound,
		domainerror.ErrCodeInstitutionNotFound,
		domainerror.ErrCodeFeedAccountNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeRequisitionNotLinked:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidCountryCode:
		return http.StatusBadRequest
	case domainerror.ErrCodeFeedRateLimited:
		return http.StatusTooManyRequests
	case domainerror.ErrCodeFeedUnauthorized,
		domainerror.ErrCodeFeedTokenExpired,
		domainerror.ErrCodeFeedTokenNotFound,
		domainerror.ErrCodeFeedUnavailable,
		domainerror.ErrCodeFeedResponseMalformed,
		domainerror.ErrCodeNoUsableBalance:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
