package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"labelscan/internal/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonRequest(t *testing.T, method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(method, path, bytes.NewReader(data))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

type formFile struct {
	name string
	data []byte
}

// multipartRequest builds a batch upload. A nil prompt omits the field.
func multipartRequest(t *testing.T, path string, files []formFile, prompt *string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	if prompt != nil {
		require.NoError(t, writer.WriteField("prompt", *prompt))
	}
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, path, body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, data interface{}) handler.APIResponse {
	t.Helper()
	resp := handler.APIResponse{Data: data}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func strPtr(s string) *string { return &s }
