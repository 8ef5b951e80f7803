package account

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ELYASDARK/uhc-admin-api/internal/handler"
	"github.com/ELYASDARK/uhc-admin-api/internal/middleware"
	"github.com/ELYASDARK/uhc-admin-api/internal/model"
	accountService "github.com/ELYASDARK/uhc-admin-api/internal/service/account"
	"github.com/ELYASDARK/uhc-admin-api/pkg/apperror"
)

type Handler struct {
	service accountService.Servicer
}

func NewHandler(service accountService.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.POST("", h.CreateDoctorAccount)
		doctors.PUT("/:id/email", h.UpdateDoctorEmail)
		doctors.PUT("/:id/password", h.ResetDoctorPassword)
		doctors.DELETE("/:id", h.DeleteDoctorAccount)
	}

	r.POST("/users", h.CreateUserAccount)
}

type createDoctorRequest struct {
	Email           string               `json:"email" binding:"required"`
	Password        string               `json:"password" binding:"required"`
	Name            string               `json:"name" binding:"required"`
	Specialization  string               `json:"specialization" binding:"required"`
	Department      string               `json:"department"`
	Bio             string               `json:"bio"`
	ExperienceYears int                  `json:"experienceYears"`
	ConsultationFee float64              `json:"consultationFee"`
	PhotoURL        *string              `json:"photoUrl"`
	PhoneNumber     *string              `json:"phoneNumber"`
	Qualifications  []string             `json:"qualifications"`
	WeeklySchedule  model.WeeklySchedule `json:"weeklySchedule"`
	DateOfBirth     *time.Time           `json:"dateOfBirth"`
}

func (h *Handler) CreateDoctorAccount(c *gin.Context) {
	const op = "createDoctorAccount"

	var req createDoctorRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, op, err)
		return
	}

	res, err := h.service.CreateDoctor(c.Request.Context(), middleware.CallerID(c), accountService.CreateDoctorInput{
		Email:           req.Email,
		Password:        req.Password,
		Name:            req.Name,
		Specialization:  req.Specialization,
		Department:      req.Department,
		Bio:             req.Bio,
		ExperienceYears: req.ExperienceYears,
		ConsultationFee: req.ConsultationFee,
		PhotoURL:        req.PhotoURL,
		PhoneNumber:     req.PhoneNumber,
		Qualifications:  req.Qualifications,
		WeeklySchedule:  req.WeeklySchedule,
		DateOfBirth:     req.DateOfBirth,
	})
	if err != nil {
		respondError(c, op, err)
		return
	}

	recordOutcome(op, "ok")
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"userId":   res.UserID,
		"doctorId": res.DoctorID,
		"message":  "Doctor account created successfully",
	})
}

type updateDoctorEmailRequest struct {
	NewEmail string `json:"newEmail" binding:"required"`
}

func (h *Handler) UpdateDoctorEmail(c *gin.Context) {
	const op = "updateDoctorEmail"

	var req updateDoctorEmailRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, op, err)
		return
	}

	err := h.service.UpdateDoctorEmail(c.Request.Context(), middleware.CallerID(c), c.Param("id"), req.NewEmail)
	if err != nil {
		respondError(c, op, err)
		return
	}

	recordOutcome(op, "ok")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email updated successfully",
	})
}

func (h *Handler) DeleteDoctorAccount(c *gin.Context) {
	const op = "deleteDoctorAccount"

	err := h.service.DeleteDoctor(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		respondError(c, op, err)
		return
	}

	recordOutcome(op, "ok")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Doctor account deleted successfully",
	})
}

type resetDoctorPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required"`
}

func (h *Handler) ResetDoctorPassword(c *gin.Context) {
	const op = "resetDoctorPassword"

	var req resetDoctorPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, op, err)
		return
	}

	err := h.service.ResetDoctorPassword(c.Request.Context(), middleware.CallerID(c), c.Param("id"), req.NewPassword)
	if err != nil {
		respondError(c, op, err)
		return
	}

	recordOutcome(op, "ok")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset successfully",
	})
}

type createUserRequest struct {
	Email       string     `json:"email" binding:"required"`
	Password    string     `json:"password" binding:"required"`
	FullName    string     `json:"fullName" binding:"required"`
	Role        model.Role `json:"role" binding:"required"`
	PhoneNumber *string    `json:"phoneNumber"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	StudentID   *string    `json:"studentId"`
	StaffID     *string    `json:"staffId"`
	PhotoURL    *string    `json:"photoUrl"`
}

func (h *Handler) CreateUserAccount(c *gin.Context) {
	const op = "createUserAccount"

	var req createUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, op, err)
		return
	}

	userID, err := h.service.CreateUser(c.Request.Context(), middleware.CallerID(c), accountService.CreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		Role:        req.Role,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: req.DateOfBirth,
		StudentID:   req.StudentID,
		StaffID:     req.StaffID,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		respondError(c, op, err)
		return
	}

	recordOutcome(op, "ok")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"userId":  userID,
		"message": req.Role.Capitalized() + " account created successfully",
	})
}

// bindJSON decodes the request body and converts binding failures into the
// collective missing-fields message the API reports.
func bindJSON(c *gin.Context, req interface{}) error {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		var missing []string
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				missing = append(missing, fe.Field())
			}
		}
		if len(missing) > 0 {
			return apperror.InvalidArgument("Missing required fields: " + strings.Join(missing, ", "))
		}
	}

	return apperror.InvalidArgument("Invalid request body.")
}

func respondError(c *gin.Context, op string, err error) {
	code := apperror.CodeOf(err)
	recordOutcome(op, code.String())
	c.JSON(code.HTTPStatus(), handler.NewErrorResponse(err))
}
