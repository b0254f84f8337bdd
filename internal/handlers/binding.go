package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

var errEmptyBody = errors.New("body kosong")

// BindNestedOrFlat decodes the request body into obj. A body wrapped in the
// given key ({"karyawan": {...}}) is unwrapped first; anything else is
// decoded as the flat object. The body is restored for later reads.
func BindNestedOrFlat(c *gin.Context, key string, obj any) error {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	if len(bytes.TrimSpace(body)) == 0 {
		return errEmptyBody
	}

	var nested map[string]json.RawMessage
	if err := json.Unmarshal(body, &nested); err == nil {
		if val, ok := nested[key]; ok {
			return json.Unmarshal(val, obj)
		}
	}
	return json.Unmarshal(body, obj)
}

// bindPayload is BindNestedOrFlat answering 400 on failure
func bindPayload(c *gin.Context, key string, obj any) bool {
	if err := BindNestedOrFlat(c, key, obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format data tidak valid"})
		return false
	}
	return true
}
