package inference

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

var nullData = json.RawMessage("null")

// truthy follows JSON truthiness: null, false, 0 and "" are falsy.
// Objects and arrays are truthy even when empty.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null:
		return false
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		return true
	}
	return false
}

// errorMessage renders the envelope error value: strings as-is, anything
// else as its raw JSON.
func errorMessage(r gjson.Result) string {
	if r.Type == gjson.String {
		return r.Str
	}
	return r.Raw
}

// decodeEnvelope splits a {data} / {error} body already known to be valid
// JSON. ok is false when the envelope carries a truthy error, in which case
// message is set.
func decodeEnvelope(body []byte) (data json.RawMessage, message string, ok bool) {
	envelope := gjson.ParseBytes(body)
	if errField := envelope.Get("error"); errField.Exists() && truthy(errField) {
		return nil, errorMessage(errField), false
	}
	dataField := envelope.Get("data")
	if !dataField.Exists() {
		return nullData, "", true
	}
	return json.RawMessage(dataField.Raw), "", true
}
