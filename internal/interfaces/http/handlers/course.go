// internal/interfaces/http/handlers/course.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/gurukul-storefront/internal/domain/course"
)

// CourseHandler handles baking course endpoints
type CourseHandler struct {
	courses *course.Service
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService *course.Service) *CourseHandler {
	return &CourseHandler{courses: courseService}
}

// SubmitInquiry handles POST /courses/inquiries
func (h *CourseHandler) SubmitInquiry(c *gin.Context) {
	var req course.InquiryRequest
	if !bindJSON(c, &req) {
		return
	}

	row, err := h.courses.SubmitInquiry(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to send inquiry")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Thank you! Your inquiry has been sent successfully.",
		"data":    row,
	})
}
