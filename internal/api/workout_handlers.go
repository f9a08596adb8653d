package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourname/healthtrack/internal/service"
)

func ListWorkouts(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), app.Health().Workouts(), nil)
	}
}

func PostWorkout(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.WorkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateWorkoutRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Workout validation failed")
			return
		}

		w := app.Health().AddWorkout(c.Request.Context(), req)
		c.JSON(http.StatusCreated, w)
	}
}

func PutWorkout(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.WorkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateWorkoutRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Workout validation failed")
			return
		}

		// An unknown id is a silent no-op; the current collection comes back
		// either way.
		workouts := app.Health().EditWorkout(c.Request.Context(), c.Param("id"), req)
		HandleSuccess(c, app.Logger(), workouts, nil)
	}
}

func DeleteWorkout(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		workouts := app.Health().DeleteWorkout(c.Request.Context(), c.Param("id"))
		HandleSuccess(c, app.Logger(), workouts, nil)
	}
}
