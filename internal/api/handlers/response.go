package handlers

import (
	"encoding/json"
	"net/http"
)

const msgInternalError = "внутренняя ошибка сервера"

// Action подсказка клиенту, как восстановиться после ошибки
type Action string

const (
	ActionNone              Action = ""
	ActionPickDate          Action = "pick_date"
	ActionPickPaymentMethod Action = "pick_payment_method"
	ActionRetry             Action = "retry"
	ActionFixInput          Action = "fix_input"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Action  Action `json:"action,omitempty"`
}

// RespondJSON пишет data как JSON с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondNoContent 204 без тела
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondError ошибка без подсказки
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondErrorWithAction(w, status, message, ActionNone)
}

// RespondErrorWithAction ошибка с подсказкой, что делать пользователю
func RespondErrorWithAction(w http.ResponseWriter, status int, message string, action Action) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message, Action: action})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondErrorWithAction(w, http.StatusBadRequest, message, ActionFixInput)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}
