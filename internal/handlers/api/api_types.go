package api

import "github.com/khanghh/kaudit/params"

type APIResponse struct {
	APIVersion string        `json:"apiVersion"`
	Data       any           `json:"data,omitempty"`
	Error      *APIErrorInfo `json:"error,omitempty"`
}

type APIErrorInfo struct {
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Errors  []APIErrorDetail `json:"errors,omitempty"`
}

type APIErrorDetail struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type ListResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

type SubmitResponse struct {
	EventIDs []string `json:"eventIds"`
}

type LegalHoldRequest struct {
	EventIDs []string `json:"eventIds"`
	Hold     bool     `json:"hold"`
}

type LegalHoldResponse struct {
	Updated int64 `json:"updated"`
}

type ReportRequest struct {
	Framework string `json:"framework"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

type InvestigationRequest struct {
	Notes string `json:"notes"`
}

func NewDataResponse(data any) APIResponse {
	return APIResponse{APIVersion: params.APIVersion, Data: data}
}

func NewErrorResponse(code int, message string, details ...APIErrorDetail) APIResponse {
	return APIResponse{
		APIVersion: params.APIVersion,
		Error: &APIErrorInfo{
			Code:    code,
			Message: message,
			Errors:  details,
		},
	}
}
