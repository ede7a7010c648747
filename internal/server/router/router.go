package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/shafwanhasyim/sikad-gg/internal/logging"
	"github.com/shafwanhasyim/sikad-gg/internal/server/handlers"
	"github.com/shafwanhasyim/sikad-gg/internal/server/middleware"
)

// New wires handlers and middleware into an HTTP router.
func New(handler *handlers.Handler, mw *middleware.Manager, logger log.Logger) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), logging.GinMiddleware(logger), mw.CORS())

	router.GET("/health", handler.Health)

	admin := router.Group("/admin")
	admin.Use(mw.Auth(), mw.RateLimit(), mw.Admin())
	{
		admin.POST("/apikeys", handler.CreateAPIKey)
		admin.GET("/apikeys/:key", handler.GetAPIKey)
	}

	v1 := router.Group("/api/v1")
	v1.Use(mw.Auth(), mw.RateLimit())
	{
		students := v1.Group("/students")
		{
			students.POST("", handler.CreateStudent)
			students.GET("", handler.ListStudents)
			students.GET("/:id", handler.GetStudent)
			students.PUT("/:id", handler.UpdateStudent)
			students.DELETE("/:id", handler.DeleteStudent)
			students.GET("/:id/grades", handler.GetTranscript)
			students.GET("/:id/ips", handler.GetSemesterGPA)
		}

		courses := v1.Group("/courses")
		{
			courses.POST("", handler.CreateCourse)
			courses.GET("", handler.ListCourses)
			courses.GET("/:id", handler.GetCourse)
			courses.PUT("/:id", handler.UpdateCourse)
			courses.DELETE("/:id", handler.DeleteCourse)
			courses.GET("/:id/grades", handler.GetCourseGrades)
			courses.GET("/:id/distribution", handler.GetDistribution)
		}

		grades := v1.Group("/grades")
		{
			grades.POST("", handler.CreateGrade)
			grades.GET("", handler.ListGrades)
			grades.GET("/ranking", handler.GetRanking)
			grades.GET("/:id", handler.GetGrade)
			grades.PUT("/:id", handler.UpdateGrade)
			grades.DELETE("/:id", handler.DeleteGrade)
		}
	}

	return router
}
