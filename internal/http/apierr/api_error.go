package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/tienda-labs/tienda/pkg/jsonapi"
	"github.com/tienda-labs/tienda/pkg/validator"
	"github.com/tienda-labs/tienda/pkg/zerror"
)

// ErrorResponse is the errors array for the envelope plus the HTTP status
// it should be written with.
type ErrorResponse struct {
	Errors     []jsonapi.Error
	StatusCode int
}

// New maps an error to the envelope's errors array.
func New(err error) ErrorResponse {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		status := ZErrorStatusToHTTPStatus(zErr.Status())
		detail := zErr.Msg()
		if status == http.StatusInternalServerError && zErr.Parent() != nil {
			detail = zErr.Parent().Error()
		}

		return ErrorResponse{
			Errors: []jsonapi.Error{{
				Status: strconv.Itoa(status),
				Code:   zErr.Code(),
				Detail: detail,
			}},
			StatusCode: status,
		}
	}

	var validationErrs govalidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		errs := make([]jsonapi.Error, len(validationErrs))
		for i, fe := range validationErrs {
			errs[i] = jsonapi.Error{
				Status: strconv.Itoa(http.StatusBadRequest),
				Code:   "VALIDATION_FAILED",
				Detail: fmt.Sprintf("%s: %s", fe.Field(), validator.ValidationErrorMessage(fe)),
			}
		}

		return ErrorResponse{
			Errors:     errs,
			StatusCode: http.StatusBadRequest,
		}
	}

	// Storage and other unclassified faults surface their message, per the
	// observed contract.
	return ErrorResponse{
		Errors: []jsonapi.Error{{
			Status: strconv.Itoa(http.StatusInternalServerError),
			Code:   "INTERNAL_SERVER_ERROR",
			Detail: err.Error(),
		}},
		StatusCode: http.StatusInternalServerError,
	}
}

func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusNotFound:
		return http.StatusNotFound
	case zerror.StatusConflict:
		return http.StatusConflict
	case zerror.StatusBadRequest, zerror.StatusValidationFailed:
		return http.StatusBadRequest
	case zerror.StatusTimeout:
		return http.StatusGatewayTimeout
	case zerror.StatusBadGateway:
		return http.StatusBadGateway
	case zerror.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	case zerror.StatusUnknown, zerror.StatusInternalServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
