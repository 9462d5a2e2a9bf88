package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"techdaily/config"
	"techdaily/internal/ai"
	"techdaily/internal/model"
	"techdaily/internal/report"
	"techdaily/internal/store"
	"techdaily/services/worker"
)

// quickCrawlLimit is the per-source budget of the quick-crawl endpoint
const quickCrawlLimit = 2

// Handler exposes the crawl and report trigger surface over HTTP
type Handler struct {
	cfg       *config.Config
	store     *store.Store
	worker    *worker.Worker
	assembler *report.Assembler
	ai        *ai.Client
}

func NewHandler(cfg *config.Config, st *store.Store, w *worker.Worker, a *report.Assembler, aiClient *ai.Client) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     st,
		worker:    w,
		assembler: a,
		ai:        aiClient,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	crawlerAPI := r.Group("/api/crawler")
	{
		crawlerAPI.POST("/quick-crawl", h.QuickCrawl)
		crawlerAPI.POST("/full-crawl", h.FullCrawl)
		crawlerAPI.POST("/crawl-source", h.CrawlSource)
		crawlerAPI.GET("/sources", h.ListSources)
		crawlerAPI.GET("/statistics", h.Statistics)
		crawlerAPI.GET("/health", h.Health)
	}

	articlesAPI := r.Group("/api/articles")
	{
		articlesAPI.GET("/recent", h.RecentArticles)
		articlesAPI.POST("/:id/translate", h.TranslateArticle)
		articlesAPI.POST("/:id/summarize", h.SummarizeArticle)
	}

	reportsAPI := r.Group("/api/reports")
	{
		reportsAPI.POST("/generate", h.GenerateReport)
		reportsAPI.GET("/today", h.TodayReport)
		reportsAPI.GET("/latest", h.LatestReport)
		reportsAPI.GET("/recent", h.RecentReports)
		reportsAPI.GET("/:id", h.GetReport)
	}
}

// QuickCrawl runs every adapter with a small fixed budget
func (h *Handler) QuickCrawl(c *gin.Context) {
	summary := h.worker.CrawlAll(c.Request.Context(), quickCrawlLimit)
	c.JSON(http.StatusOK, summary)
}

// FullCrawl runs every adapter with the configured (or requested) budget
func (h *Handler) FullCrawl(c *gin.Context) {
	perSource := h.cfg.ArticlesPerSource
	if raw := c.Query("articlesPerSource"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "articlesPerSource must be a positive integer"})
			return
		}
		perSource = n
	}
	summary := h.worker.CrawlAll(c.Request.Context(), perSource)
	c.JSON(http.StatusOK, summary)
}

// CrawlSource runs one adapter by name. Unknown sources come back as a
// structured failure with HTTP 200, matching the crawl summary contract.
func (h *Handler) CrawlSource(c *gin.Context) {
	source := c.Query("source")
	if source == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source is required"})
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	c.JSON(http.StatusOK, h.worker.CrawlOne(c.Request.Context(), source, limit))
}

func (h *Handler) ListSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": h.worker.AvailableSources()})
}

func (h *Handler) Statistics(c *gin.Context) {
	stats, err := h.worker.Statistics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	total, err := h.store.CountArticles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_articles": total,
		"by_source":      stats,
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"available_crawlers": len(h.worker.AvailableSources()),
	})
}

// RecentArticles lists articles published in the last N days, newest first
func (h *Handler) RecentArticles(c *gin.Context) {
	days := 1
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}

	end := time.Now()
	articles, err := h.store.FindArticlesByDateRange(end.AddDate(0, 0, -days), end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, articles)
}

// TranslateArticle fills the article's Chinese title via the quick model
func (h *Handler) TranslateArticle(c *gin.Context) {
	article, ok := h.articleFromPath(c)
	if !ok {
		return
	}

	titleZh := h.ai.TranslateTitle(h.cfg.AIQuickModel, article.Title)
	if ai.IsErrorReply(titleZh) {
		c.JSON(http.StatusBadGateway, gin.H{"error": titleZh})
		return
	}

	if err := h.store.UpdateArticleTranslation(article.ID, titleZh); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": article.ID, "title_zh": titleZh})
}

// SummarizeArticle fills the article's Chinese summary via the quick model
func (h *Handler) SummarizeArticle(c *gin.Context) {
	article, ok := h.articleFromPath(c)
	if !ok {
		return
	}

	summaryZh := h.ai.SummarizeArticle(h.cfg.AIQuickModel, article.Title, article.URL, article.Summary)
	if ai.IsErrorReply(summaryZh) {
		c.JSON(http.StatusBadGateway, gin.H{"error": summaryZh})
		return
	}

	if err := h.store.UpdateArticleSummary(article.ID, summaryZh); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": article.ID, "summary_zh": summaryZh})
}

func (h *Handler) articleFromPath(c *gin.Context) (*model.Article, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be numeric"})
		return nil, false
	}

	article, err := h.store.FindArticleByID(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return nil, false
	}
	return article, true
}

// GenerateReport builds the report for the given date (default today)
func (h *Handler) GenerateReport(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	rep, err := h.assembler.Generate(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report_id":     rep.ID,
		"title":         rep.Title,
		"article_count": rep.TotalArticles,
	})
}

func (h *Handler) TodayReport(c *gin.Context) {
	rep, err := h.store.FindReportByDate(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rep == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report for today yet"})
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) LatestReport(c *gin.Context) {
	rep, err := h.store.LatestPublishedReport()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rep == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no published report yet"})
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) RecentReports(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}

	reports, err := h.store.RecentReports(days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GetReport returns one report by ID and bumps its read counter
func (h *Handler) GetReport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be numeric"})
		return
	}

	rep, err := h.store.FindReportByID(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rep == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	if err := h.store.IncrementReadCount(rep.ID); err == nil {
		rep.ReadCount++
	}

	c.JSON(http.StatusOK, rep)
}
