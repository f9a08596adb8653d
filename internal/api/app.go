package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yourname/healthtrack/internal"
	"github.com/yourname/healthtrack/internal/auth"
	"github.com/yourname/healthtrack/internal/service"
)

type App interface {
	Logger() internal.Logger
	Health() *service.Facade
	Session() *auth.Session
}

type Server struct {
	logger  internal.Logger
	facade  *service.Facade
	session *auth.Session
}

func NewServer(logger internal.Logger, facade *service.Facade, session *auth.Session) *Server {
	return &Server{logger: logger, facade: facade, session: session}
}

func (s *Server) Logger() internal.Logger { return s.logger }
func (s *Server) Health() *service.Facade { return s.facade }
func (s *Server) Session() *auth.Session  { return s.session }

// NewRouter builds the gin engine with all routes wired. Shared between main
// and the handler tests.
func NewRouter(app App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())

	r.POST("/api/auth/signin", PostSignIn(app))
	r.POST("/api/auth/signout", PostSignOut(app))
	r.GET("/api/status", GetStatus(app))

	protected := r.Group("/api")
	protected.Use(RequireSession(app))
	{
		protected.GET("/auth/me", GetMe(app))
		protected.GET("/health", GetHealth(app))
		protected.PUT("/health", PutHealth(app))
		protected.GET("/health/export", GetExport(app))
		protected.GET("/milestones", GetMilestones(app))
		protected.GET("/workouts", ListWorkouts(app))
		protected.POST("/workouts", PostWorkout(app))
		protected.PUT("/workouts/:id", PutWorkout(app))
		protected.DELETE("/workouts/:id", DeleteWorkout(app))
	}

	return r
}
