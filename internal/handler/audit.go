package handler

import (
	"net/http"

	"github.com/alexconectado/pdv-caixa/internal/dto"
	"github.com/alexconectado/pdv-caixa/internal/money"
	"github.com/alexconectado/pdv-caixa/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditHandler reads straight from the repository; the listing has no business
// rules beyond the filter.
type AuditHandler struct{ repo repository.AuditRepository }

func NewAuditHandler(repo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// List returns the most recent audit entries, newest first, capped at 100.
func (h *AuditHandler) List(c *gin.Context) {
	var filter dto.AuditFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}

	rf := repository.AuditListFilter{}
	if filter.UserID != "" {
		id, _ := uuid.Parse(filter.UserID) // format already validated
		rf.UserID = &id
	}
	if filter.Start != "" {
		t, _ := money.ParseDate(filter.Start)
		rf.Start = &t
	}
	if filter.End != "" {
		t, _ := money.ParseDate(filter.End)
		rf.End = &t
	}

	logs, err := h.repo.List(c.Request.Context(), rf)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp := make([]dto.AuditEntryResponse, len(logs))
	for i := range logs {
		entry := &logs[i]
		resp[i] = dto.AuditEntryResponse{
			ID:         entry.ID.String(),
			Action:     entry.Action,
			EntityType: entry.EntityType,
			UserID:     entry.UserID.String(),
			Details:    entry.Details,
			CreatedAt:  money.FormatDateTime(entry.CreatedAt),
		}
		if entry.EntityID != nil {
			resp[i].EntityID = entry.EntityID.String()
		}
		if entry.User != nil {
			resp[i].UserName = entry.User.FullName
		}
	}
	c.JSON(http.StatusOK, resp)
}
