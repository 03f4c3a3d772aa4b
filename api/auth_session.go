package api

import (
	"net/http"

	"campusflow/sched-api/model"

	"github.com/gin-gonic/gin"
)

// SessionVerify returns the user the bearer token resolves to. All the
// actual validation happens in the auth middleware, there is exactly
// one place where tokens get checked
func (a *API) SessionVerify(c *gin.Context) {
	user := c.MustGet("user").(*model.User)

	c.JSON(http.StatusOK, gin.H{
		"user": user.Public(),
	})
}
