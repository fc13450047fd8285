package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/dates"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// RecurringHandler handles recurring-rule requests, including the
// due-pass processing trigger.
type RecurringHandler struct {
	recurringService services.RecurringServicer
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(recurringService services.RecurringServicer) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// UpdateRecurringRuleRequest represents the request payload for updating a
// recurring rule. The scheduling cursor (next_date) is not editable.
type UpdateRecurringRuleRequest struct {
	Name       string `json:"name"`
	Amount     *int64 `json:"amount"`
	CategoryID string `json:"category_id" binding:"omitempty,uuid"`
	EndDate    string `json:"end_date"`
}

// Process triggers a due pass for today. Safe to call redundantly: rules
// already advanced past today are not due again.
func (h *RecurringHandler) Process(c *gin.Context) {
	result, err := h.recurringService.RunDuePass(dates.Today(time.Local))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRules handles the retrieval of recurring rules
func (h *RecurringHandler) GetRules(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.recurringService.GetRules(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring": result})
}

// UpdateRule handles updating a recurring rule
func (h *RecurringHandler) UpdateRule(c *gin.Context) {
	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecurringRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	endDate, err := parseDate("end_date", req.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rule, err := h.recurringService.UpdateRule(ruleID, req.Name, req.Amount, req.CategoryID, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring": rule})
}

// DeleteRule handles deleting a recurring rule
func (h *RecurringHandler) DeleteRule(c *gin.Context) {
	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recurringService.DeleteRule(ruleID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recurring rule deleted"})
}
