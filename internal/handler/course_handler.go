package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/makeup-api/internal/dto"
	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
	"github.com/noah-isme/makeup-api/pkg/response"
)

type courseCatalog interface {
	ListCodes(ctx context.Context) ([]string, error)
}

type openCourseLister interface {
	OpenCourseCodes(ctx context.Context, examType models.ExamType) ([]string, error)
}

// CourseHandler exposes the course code listings used by the submission form.
type CourseHandler struct {
	courses   courseCatalog
	deadlines openCourseLister
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(courses courseCatalog, deadlines openCourseLister) *CourseHandler {
	return &CourseHandler{courses: courses, deadlines: deadlines}
}

// Codes godoc
// @Summary List course codes
// @Description With open=true, only courses currently accepting applications for examType.
// @Tags Courses
// @Produce json
// @Param examType query string false "compre or midsem"
// @Param open query bool false "Only open courses"
// @Success 200 {object} response.Envelope
// @Router /courses/codes [get]
func (h *CourseHandler) Codes(c *gin.Context) {
	var query dto.CourseCodesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	var (
		codes []string
		err   error
	)
	if query.Open || query.ExamType != "" {
		codes, err = h.deadlines.OpenCourseCodes(c.Request.Context(), query.ExamType)
	} else {
		codes, err = h.courses.ListCodes(c.Request.Context())
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, codes, nil)
}
