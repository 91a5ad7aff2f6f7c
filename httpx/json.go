package httpx

import (
	"net/http"

	"github.com/go-chi/render"
	"survey-collector/log"
)

// StatusBody is the envelope every JSON endpoint answers with.
type StatusBody struct {
	Status string `json:"status"`
	Msg    string `json:"msg,omitempty"`
}

func JSONOk(w http.ResponseWriter, r *http.Request, msg string) {
	render.JSON(w, r, StatusBody{Status: "ok", Msg: msg})
}

// JSONError logs the error code and answers {"status":"error","msg":...}
// with the given HTTP status. Client errors are logged at debug, server
// errors at error level.
func JSONError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	level := log.DebugLevel
	if status >= http.StatusInternalServerError {
		level = log.ErrorLevel
	}
	log.Logf(level, "%s: %s", code, msg)

	render.Status(r, status)
	render.JSON(w, r, StatusBody{Status: "error", Msg: msg})
}
