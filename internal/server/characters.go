package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

type createCharacterRequest struct {
	Name          string `json:"name"`
	Age           string `json:"age"`
	Gender        string `json:"gender"`
	FavoriteThing string `json:"favoriteThing"`
	Image         string `json:"image"`
}

func (h *Handler) createCharacter(c *gin.Context) {
	var body createCharacterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	rec := &domain.CharacterRecord{
		Character: domain.Character{
			Name:          body.Name,
			Age:           body.Age,
			Gender:        body.Gender,
			FavoriteThing: body.FavoriteThing,
		},
		Image: body.Image,
	}
	if err := rec.Validate(); err != nil {
		writeError(c, err)
		return
	}

	id, err := h.repo.CreateCharacter(c.Request.Context(), rec)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) getCharacter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rec, err := h.repo.GetCharacter(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// parseID はパスの :id を正の整数として読み取ります。失敗時はレスポンスを書き込み済みです。
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
