package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/helpdesk-core/renewals-tracker/internal/common"
	"github.com/helpdesk-core/renewals-tracker/internal/contracts"
	"github.com/helpdesk-core/renewals-tracker/internal/pipeline"
)

// uploadContract accepts a multipart PDF and runs the extraction pipeline.
// A gate rejection is a 422 carrying the validation details; the caller may
// retry with force=true to file the document as a draft.
func (s *Server) uploadContract(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}
	defer file.Close()

	force := c.Query("force") == "true" || c.PostForm("force") == "true"

	stored, err := s.store.Save(header.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := s.processor.Process(c.Request.Context(), pipeline.Request{
		Stored: stored,
		Force:  force,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if !out.Accepted {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "document rejected",
			"validation": out.Validation,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"contract":   out.Contract,
		"validation": out.Validation,
	})
}

func (s *Server) createContract(c *gin.Context) {
	var req contracts.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	created, err := s.contracts.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) listContracts(c *gin.Context) {
	out, err := s.contracts.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": out})
}

func (s *Server) getContract(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := s.contracts.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) updateContract(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contracts.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	out, err := s.contracts.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) deleteContract(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.contracts.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type acknowledgeRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) acknowledgeContract(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req acknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	v := common.NewValidator()
	v.Field("user_id", req.UserID, common.Required, common.UUID)
	if err := v.Error(); err != nil {
		writeError(c, err)
		return
	}
	by, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a UUID"})
		return
	}
	out, err := s.contracts.Acknowledge(c.Request.Context(), id, by)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) unacknowledgeContract(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := s.contracts.Unacknowledge(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) exportContracts(c *gin.Context) {
	data, err := s.exporter.ExportContractsXLSX(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="contracts.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}
