package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type FavoritesController struct {
	favorites FavoritesCatalog
	logger    logrus.FieldLogger
}

func NewFavoritesController(favorites FavoritesCatalog, logger logrus.FieldLogger) *FavoritesController {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FavoritesController{favorites: favorites, logger: logger}
}

type favoriteResponse struct {
	WordID     string `json:"word_id"`
	IsFavorite bool   `json:"is_favorite"`
	Removed    *bool  `json:"removed,omitempty"`
}

// AddFavorite bookmarks a word for the caller. Repeating it is harmless.
// POST /api/words/:id/favorite
func (fc *FavoritesController) AddFavorite(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	wordID := c.Param("id")
	if err := fc.favorites.AddFavorite(c.Request.Context(), wordID, caller.UserID); err != nil {
		respondCatalogError(c, fc.logger, err, "add favorite")
		return
	}
	c.JSON(http.StatusOK, favoriteResponse{WordID: wordID, IsFavorite: true})
}

// RemoveFavorite drops the caller's bookmark. Removing a bookmark that does
// not exist succeeds with removed=false.
// DELETE /api/words/:id/favorite
func (fc *FavoritesController) RemoveFavorite(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	wordID := c.Param("id")
	removed, err := fc.favorites.RemoveFavorite(c.Request.Context(), wordID, caller.UserID)
	if err != nil {
		respondCatalogError(c, fc.logger, err, "remove favorite")
		return
	}
	c.JSON(http.StatusOK, favoriteResponse{WordID: wordID, IsFavorite: false, Removed: &removed})
}

// CheckFavorite reports whether the caller bookmarked a word.
// GET /api/words/:id/favorite
func (fc *FavoritesController) CheckFavorite(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	wordID := c.Param("id")
	favorite, err := fc.favorites.IsFavorite(c.Request.Context(), wordID, caller.UserID)
	if err != nil {
		respondCatalogError(c, fc.logger, err, "check favorite")
		return
	}
	c.JSON(http.StatusOK, favoriteResponse{WordID: wordID, IsFavorite: favorite})
}

// ListFavorites returns the caller's bookmarks, most recent first.
// GET /api/favorites?page=&limit=
func (fc *FavoritesController) ListFavorites(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	page, err := fc.favorites.ListFavorites(c.Request.Context(), caller.UserID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		respondCatalogError(c, fc.logger, err, "list favorites")
		return
	}
	c.JSON(http.StatusOK, page)
}
