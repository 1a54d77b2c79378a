package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/helpdesk-core/renewals-tracker/internal/common"
	"github.com/helpdesk-core/renewals-tracker/internal/entity"
)

type createUserRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	v := common.NewValidator()
	v.Field("name", req.Name, common.Required, common.MaxLength(200))
	v.Field("email", req.Email, common.MaxLength(320))
	if err := v.Error(); err != nil {
		writeError(c, err)
		return
	}

	u := &entity.User{Name: req.Name, Email: req.Email, IsAdmin: req.IsAdmin}
	if err := s.users.Create(c.Request.Context(), u); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (s *Server) listAdmins(c *gin.Context) {
	out, err := s.users.ListAdmins(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}
