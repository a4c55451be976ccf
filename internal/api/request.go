package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/vytor/lingoflash/internal/errors"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into v. An empty body leaves v
// untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		var tooBig *http.MaxBytesError
		if stderrors.As(err, &tooBig) {
			return errors.NewBadRequestError("request body too large")
		}
		return errors.NewBadRequestError("invalid JSON body")
	}
	return nil
}

// queryInt parses an integer query parameter, returning 0 when it is absent
// or not a number.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
