package backend

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// writeData answers 200 {"data": v}
func writeData(w http.ResponseWriter, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		writeJSON(w, http.StatusOK, envelope{Error: "encode response: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]json.RawMessage{"data": raw})
}

// writeError answers 200 {"error": message}. Failures are reported inside
// the envelope so the client can tell them from transport errors.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("%s %s: %v", r.Method, r.URL.Path, err)
	writeJSON(w, http.StatusOK, envelope{Error: errorText(err, r)})
}

// errorText is never empty: an empty error field would read as success
func errorText(err error, r *http.Request) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "request to " + r.URL.Path + " failed"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
