package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CategoriesController struct {
	categories CategoryLister
	logger     logrus.FieldLogger
}

func NewCategoriesController(categories CategoryLister, logger logrus.FieldLogger) *CategoriesController {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CategoriesController{categories: categories, logger: logger}
}

// List returns every category ordered by name.
// GET /api/categories
func (cc *CategoriesController) List(c *gin.Context) {
	categories, err := cc.categories.ListCategories(c.Request.Context())
	if err != nil {
		respondInternalError(c, cc.logger, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
