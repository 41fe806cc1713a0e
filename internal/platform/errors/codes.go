// Package errors provides structured, coded errors for the simulation core.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Storage errors
	CodeNotFound        Code = "NOT_FOUND"
	CodeSaveCorrupt     Code = "SAVE_CORRUPT"
	CodeSaveWriteFailed Code = "SAVE_WRITE_FAILED"

	// Catalog errors
	CodeCatalogInvalid Code = "CATALOG_INVALID"

	// Mission errors
	CodeMissionIncomplete Code = "MISSION_INCOMPLETE"
	CodeMissionNoneActive Code = "MISSION_NONE_ACTIVE"

	// License errors
	CodeLicenseUnknown      Code = "LICENSE_UNKNOWN"
	CodeLicenseAlreadyOwned Code = "LICENSE_ALREADY_OWNED"
	CodeLicenseLevelTooLow  Code = "LICENSE_LEVEL_TOO_LOW"

	// Economy errors
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
)

// HTTPStatus maps domain codes to HTTP status codes for the operations API.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeLicenseUnknown:
		return http.StatusBadRequest

	case CodeMissionIncomplete,
		CodeMissionNoneActive,
		CodeLicenseAlreadyOwned,
		CodeLicenseLevelTooLow,
		CodeInsufficientFunds:
		return http.StatusConflict

	case CodeNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
