package responses

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestNewPage_Links(t *testing.T) {
	c, _ := testContext("http://example.com/api/recipes/?page=2&limit=2&tags=lunch")

	p := NewPage(c, []int{3, 4}, 5, 2, 2)
	require.NotNil(t, p.Next)
	require.NotNil(t, p.Previous)
	assert.Contains(t, *p.Next, "page=3")
	assert.Contains(t, *p.Next, "tags=lunch")
	assert.Contains(t, *p.Previous, "page=1")
	assert.Equal(t, int64(5), p.Count)
}

func TestNewPage_Bounds(t *testing.T) {
	c, _ := testContext("http://example.com/api/users/")

	p := NewPage[int](c, nil, 0, 1, 6)
	assert.Nil(t, p.Next)
	assert.Nil(t, p.Previous)
	assert.NotNil(t, p.Results)
}

func TestBadRequest_ProblemJSON(t *testing.T) {
	c, w := testContext("/api/recipes/1/favorite/")
	c.Set("trace_id", "trace-1")

	BadRequest(c, "recipe already added to favorites")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "recipe already added to favorites", body["detail"])
	assert.Equal(t, "trace-1", body["trace_id"])
	assert.NotEmpty(t, body["timestamp"])
	assert.True(t, c.IsAborted())
}

func TestAttachment(t *testing.T) {
	c, w := testContext("/api/recipes/download_shopping_cart/")

	Attachment(c, "shopping_list.txt", "text/plain; charset=utf-8", []byte("Salt (g): 5\n"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="shopping_list.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Salt (g): 5\n", w.Body.String())
}
