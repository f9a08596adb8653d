package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yourname/healthtrack/internal"
	"github.com/yourname/healthtrack/internal/auth"
)

func PostSignIn(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req auth.SignInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := auth.ValidateSignInRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Sign-in validation failed")
			return
		}

		user, err := app.Session().SignIn(c.Request.Context(), req.Email)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to store session")
			return
		}

		// A fresh session regenerates the sample record, same as first mount.
		app.Health().Mount(c.Request.Context())
		HandleSuccess(c, app.Logger(), user, nil)
	}
}

func PostSignOut(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := app.Session().SignOut(c.Request.Context()); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to clear session")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"signed_out": true}, nil)
	}
}

func GetMe(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		HandleSuccess(c, app.Logger(), user, nil)
	}
}
