package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/lexicon/internal/catalog"
)

func TestRespondCatalogError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{catalog.ErrInvalidID, http.StatusBadRequest, "invalid_id"},
		{fmt.Errorf("%w: word is required", catalog.ErrInvalidEntry), http.StatusBadRequest, "invalid_entry"},
		{catalog.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
		{catalog.ErrInvalidCaller, http.StatusUnauthorized, "invalid_caller"},
		{catalog.ErrForbidden, http.StatusForbidden, "forbidden"},
		{catalog.ErrNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("create entry: %w", catalog.ErrDuplicateEntry), http.StatusConflict, "duplicate_entry"},
		{fmt.Errorf("list: %w: %w", catalog.ErrStoreUnavailable, errors.New("disk I/O error")), http.StatusServiceUnavailable, "store_unavailable"},
		{errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondCatalogError(c, quietLogger(), tt.err, "test")

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Contains(t, w.Body.String(), `"code":"`+tt.code+`"`)
			}
		})
	}
}

func TestRespondCatalogError_HidesStoreDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := fmt.Errorf("list: %w: %w", catalog.ErrStoreUnavailable, errors.New("password authentication failed for user lexicon"))
	respondCatalogError(c, quietLogger(), err, "test")

	assert.NotContains(t, w.Body.String(), "password")
}

func TestQueryInt(t *testing.T) {
	tests := map[string]int{
		"/?page=3":   3,
		"/?page=-2":  -2,
		"/?page=abc": 0,
		"/":          0,
	}
	for url, want := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, url, nil)

		assert.Equal(t, want, queryInt(c, "page"), url)
	}
}

func TestQueryList(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?language=en,fr&language=de&other=x", nil)

	assert.Equal(t, []string{"en", "fr", "de"}, queryList(c, "language"))
	assert.Empty(t, queryList(c, "category"))
}
