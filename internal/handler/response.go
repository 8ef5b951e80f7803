package handler

import "github.com/ELYASDARK/uhc-admin-api/pkg/apperror"

// ErrorResponse is the wire shape for failed operations. Code carries the
// stable error-kind string clients branch on.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(err error) *ErrorResponse {
	code := apperror.CodeOf(err)
	return &ErrorResponse{
		Success: false,
		Code:    code.String(),
		Message: apperror.MessageOf(err),
	}
}
