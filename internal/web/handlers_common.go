package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/BloodBank/internal/core"
)

// maxBodyBytes caps JSON request bodies (1MB).
const maxBodyBytes = 1 << 20

// idempotencyHeader lets clients retry create-inventory safely.
const idempotencyHeader = "Idempotency-Key"

var errEmptyBody = fmt.Errorf("%w: request body is empty", core.ErrValidation)

type decodeMode int

const (
	lenient decodeMode = iota
	strict             // reject unknown fields, nested objects included
)

// decodeJSON reads one JSON value from the body into dst. Failures wrap
// core.ErrValidation so they answer 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, mode decodeMode) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if mode == strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body exceeds %d bytes", core.ErrValidation, tooLarge.Limit)
		}
		return fmt.Errorf("%w: malformed JSON body: %v", core.ErrValidation, err)
	}
	return nil
}

// actorID is the caller id from the X-User-ID header, falling back to the
// userId a POST body carried.
func actorID(r *http.Request, bodyUserID string) string {
	if id := core.GetActorIDFromContext(r.Context()); id != "" {
		return id
	}
	return strings.TrimSpace(bodyUserID)
}

// quantity accepts 250, 250.0 and "250". Browser forms send strings.
type quantity int64

func (q *quantity) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*q = 0
		return nil
	}
	s = strings.TrimSpace(strings.Trim(s, `"`))
	if s == "" {
		*q = 0
		return nil
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*q = quantity(n)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return fmt.Errorf("quantity must be a whole number of ML, got %s", string(b))
	}
	*q = quantity(f)
	return nil
}

// emptyIfNil keeps list payloads as [] rather than null.
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
