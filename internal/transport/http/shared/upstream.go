package shared

import (
	"errors"
	"net/http"

	"hrmconsole/internal/apiclient"
	"hrmconsole/internal/hrmapi"
	"hrmconsole/internal/requestctx"
	"hrmconsole/internal/transport/http/api"
)

// FailUpstream maps a backend or input failure onto the console envelope.
// Backend 4xx statuses pass through; everything else is a bad gateway.
func FailUpstream(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.GetRequestID(r.Context())
	if errors.Is(err, hrmapi.ErrInvalidInput) {
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
		return
	}

	status := apiclient.StatusOf(err)
	switch {
	case status >= 400 && status < 500:
		api.Fail(w, status, "upstream_rejected", err.Error(), requestID)
	case status == 0:
		requestctx.Logger(r.Context()).Warn("backend unreachable", "err", err)
		api.Fail(w, http.StatusBadGateway, "upstream_unavailable", "backend unreachable", requestID)
	default:
		requestctx.Logger(r.Context()).Error("backend failure", "status", status, "err", err)
		api.Fail(w, http.StatusBadGateway, "upstream_error", err.Error(), requestID)
	}
}
