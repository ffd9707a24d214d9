package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, files map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for field, filename := range files {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/submit", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func saveWith(t *testing.T, store *Store, files map[string]string, fields []string) (map[string]string, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var saved map[string]string
	var saveErr error
	r := gin.New()
	r.POST("/submit", func(c *gin.Context) {
		saved, saveErr = store.SaveDocuments(c, 7, fields)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, files))
	return saved, saveErr
}

func TestSaveDocuments(t *testing.T) {
	store := NewStore(t.TempDir())

	saved, err := saveWith(t, store,
		map[string]string{"aadharFront": "front.jpg", "aadharBack": "back.png"},
		[]string{"aadharFront", "aadharBack", "insuranceImage"})
	require.NoError(t, err)

	assert.Len(t, saved, 2)
	assert.NotContains(t, saved, "insuranceImage") // absent fields are simply skipped

	for field, path := range saved {
		info, err := os.Stat(path)
		require.NoError(t, err, "stored file for %s", field)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.NotEqual(t, saved["aadharFront"], saved["aadharBack"])
}

func TestSaveDocumentsRejectsBadExtension(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := saveWith(t, store,
		map[string]string{"aadharFront": "malware.exe"},
		[]string{"aadharFront"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aadharFront")
}
