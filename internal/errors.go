package internal

import (
	"errors"

	"github.com/NYCU-SDC/summer/pkg/problem"
)

var (
	// Generic Errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidLanguage  = errors.New("invalid language tag")

	// JWT Authentication Errors
	ErrMissingAuthHeader       = errors.New("missing access token")
	ErrInvalidAuthHeaderFormat = errors.New("invalid access token")
	ErrInvalidJWTToken         = errors.New("invalid JWT token")
	ErrInvalidAuthUser         = errors.New("invalid authenticated user")
	ErrNoUserInContext         = errors.New("no user found in request context")

	// Questionnaire Errors
	ErrQuestionnaireNotFound  = errors.New("questionnaire not found")
	ErrInvalidQuestionnaireID = errors.New("invalid questionnaire id")
	ErrInvalidSchema          = errors.New("questionnaire schema is invalid")

	// Analytics Errors
	ErrInsufficientData = errors.New("no responses available")

	// Report Errors
	ErrReportNotFound          = errors.New("report not found")
	ErrInvalidReportID         = errors.New("invalid report id")
	ErrTemplateNotFound        = errors.New("report template not found")
	ErrRenderConfig            = errors.New("report render configuration is invalid")
	ErrUnsupportedReportType   = errors.New("report type is not supported")
	ErrInsufficientResponses   = errors.New("not enough responses to generate reports")
	ErrReportDataBroken        = errors.New("stored report data is broken")
	ErrFailedToExportWorkbook  = errors.New("failed to export report workbook")
	ErrFailedToLoadTemplates   = errors.New("failed to load report templates")
	ErrFailedToMarshalReport   = errors.New("failed to marshal report data")
	ErrFailedToUnmarshalAnswer = errors.New("failed to unmarshal response answers")
)

func NewProblemWriter() *problem.HttpWriter {
	return problem.NewWithMapping(ErrorHandler)
}

func ErrorHandler(err error) problem.Problem {
	switch {
	case errors.Is(err, ErrInvalidLanguage):
		return problem.NewValidateProblem("invalid language tag")

	// JWT Authentication Errors
	case errors.Is(err, ErrMissingAuthHeader):
		return problem.NewUnauthorizedProblem("missing access token")
	case errors.Is(err, ErrInvalidAuthHeaderFormat):
		return problem.NewUnauthorizedProblem("invalid access token")
	case errors.Is(err, ErrInvalidJWTToken):
		return problem.NewUnauthorizedProblem("invalid JWT token")
	case errors.Is(err, ErrInvalidAuthUser):
		return problem.NewUnauthorizedProblem("invalid authenticated user")
	case errors.Is(err, ErrNoUserInContext):
		return problem.NewUnauthorizedProblem("no user found in request context")

	// Questionnaire Errors
	case errors.Is(err, ErrQuestionnaireNotFound):
		return problem.NewNotFoundProblem("questionnaire not found")
	case errors.Is(err, ErrInvalidQuestionnaireID):
		return problem.NewBadRequestProblem("invalid questionnaire id")
	case errors.Is(err, ErrInvalidSchema):
		return problem.NewInternalServerProblem(err.Error())

	// Analytics Errors
	case errors.Is(err, ErrInsufficientData):
		return problem.NewValidateProblem("no responses available")

	// Report Errors
	case errors.Is(err, ErrReportNotFound):
		return problem.NewNotFoundProblem("report not found")
	case errors.Is(err, ErrInvalidReportID):
		return problem.NewBadRequestProblem("invalid report id")
	case errors.Is(err, ErrTemplateNotFound):
		return problem.NewNotFoundProblem("report template not found")
	case errors.Is(err, ErrRenderConfig):
		return problem.NewValidateProblem(err.Error())
	case errors.Is(err, ErrUnsupportedReportType):
		return problem.NewValidateProblem(err.Error())
	case errors.Is(err, ErrInsufficientResponses):
		return problem.NewValidateProblem(err.Error())
	case errors.Is(err, ErrReportDataBroken):
		return problem.NewInternalServerProblem("stored report data is broken")
	case errors.Is(err, ErrFailedToExportWorkbook):
		return problem.NewInternalServerProblem("failed to export report workbook")
	case errors.Is(err, ErrFailedToLoadTemplates):
		return problem.NewInternalServerProblem("failed to load report templates")
	case errors.Is(err, ErrFailedToMarshalReport):
		return problem.NewInternalServerProblem("failed to marshal report data")
	case errors.Is(err, ErrFailedToUnmarshalAnswer):
		return problem.NewInternalServerProblem("failed to unmarshal response answers")

	// Validation Errors
	case errors.Is(err, ErrValidationFailed):
		return problem.NewValidateProblem(err.Error())
	}
	return problem.Problem{}
}
