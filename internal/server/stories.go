package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

type storyPageBody struct {
	Text      string  `json:"text"`
	ImageData *string `json:"imageData"`
}

type createStoryRequest struct {
	CharacterID int64           `json:"characterId"`
	TemplateID  string          `json:"templateId"`
	Language    string          `json:"language"`
	Prompt      string          `json:"prompt"`
	Pages       []storyPageBody `json:"pages"`
}

func (h *Handler) createStory(c *gin.Context) {
	var body createStoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if len(body.Pages) == 0 {
		badRequest(c, "pages must not be empty")
		return
	}
	lang, err := domain.ParseLanguage(body.Language)
	if err != nil {
		writeError(c, err)
		return
	}

	story := &domain.Story{
		CharacterID: body.CharacterID,
		TemplateID:  body.TemplateID,
		Language:    lang,
		Prompt:      body.Prompt,
		Pages:       make([]domain.Page, len(body.Pages)),
	}
	for i, p := range body.Pages {
		story.Pages[i] = domain.Page{PageNumber: i + 1, Text: p.Text, ImageData: p.ImageData}
	}

	id, err := h.repo.CreateStory(c.Request.Context(), story)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) getStory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	story, err := h.repo.GetStory(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

func (h *Handler) listStories(c *gin.Context) {
	var characterID int64
	if s := strings.TrimSpace(c.Query("characterId")); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			badRequest(c, "invalid characterId")
			return
		}
		characterID = n
	}

	stories, err := h.repo.ListStories(c.Request.Context(), characterID)
	if err != nil {
		writeError(c, err)
		return
	}
	if stories == nil {
		stories = []domain.StorySummary{}
	}
	c.JSON(http.StatusOK, stories)
}

func (h *Handler) deleteStory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.repo.DeleteStory(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type templateView struct {
	ID     string          `json:"id"`
	Emoji  string          `json:"emoji"`
	Title  string          `json:"title"`
	Prompt string          `json:"prompt"`
	Lang   domain.Language `json:"language"`
}

func (h *Handler) listTemplates(c *gin.Context) {
	lang, err := domain.ParseLanguage(c.Query("lang"))
	if err != nil {
		writeError(c, err)
		return
	}

	all := h.catalog.All()
	views := make([]templateView, 0, len(all))
	for _, t := range all {
		loc := t.Localized(lang)
		views = append(views, templateView{ID: t.ID, Emoji: t.Emoji, Title: loc.Title, Prompt: loc.Prompt, Lang: lang})
	}
	c.JSON(http.StatusOK, views)
}
