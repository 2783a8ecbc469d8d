package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	portalAuth "github.com/leanda/portalAuth"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps an engine error onto an HTTP status.
func statusFor(err error) int {
	switch portalAuth.KindOf(err) {
	case portalAuth.KindInvalidCredentials,
		portalAuth.KindInvalidSignature,
		portalAuth.KindExpired,
		portalAuth.KindMalformed:
		return http.StatusUnauthorized
	case portalAuth.KindAccountNotFound:
		return http.StatusNotFound
	case portalAuth.KindUnavailable, portalAuth.KindUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// clientMessage hides store internals behind a fixed phrase.
func clientMessage(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "service unavailable"
	}
	return err.Error()
}

// flexibleInt accepts a JSON number or a string holding a decimal integer,
// limited to the int32 range. Fractional numbers are rejected.
type flexibleInt int

func (f *flexibleInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
		if err != nil {
			return fmt.Errorf("year must be an integer: %q", s)
		}
		*f = flexibleInt(n)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		if i < math.MinInt32 || i > math.MaxInt32 {
			return fmt.Errorf("year out of range: %s", n)
		}
		*f = flexibleInt(i)
		return nil
	}
	fl, err := n.Float64()
	if err != nil || fl != math.Trunc(fl) || fl < math.MinInt32 || fl > math.MaxInt32 {
		return fmt.Errorf("year must be an integer: %s", n)
	}
	*f = flexibleInt(fl)
	return nil
}

func (f *flexibleInt) intPtr() *int {
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}
