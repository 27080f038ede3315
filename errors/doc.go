// Package errors defines the coded errors the locator reports.
//
// Framework errors (SERVICE_NOT_FOUND, WRONG_PARAMS, INVALID_FACTORY,
// NO_SESSION_AVAILABLE, WRONG_SESSION) signal a caller or configuration
// mistake. They match with errors.Is by code and map to HTTP statuses for
// services that expose them.
package errors
