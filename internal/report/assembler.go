package report

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"techdaily/internal/ai"
	"techdaily/internal/model"
	"techdaily/internal/store"
	"techdaily/logger"
	apperrors "techdaily/pkg/errors"
)

// Assembler builds the daily report for a date: it gathers that day's
// articles, asks the AI backend for a structured digest and persists the
// result. Generation is idempotent per date; re-running regenerates the
// same row instead of creating a second one.
type Assembler struct {
	store *store.Store
	ai    *ai.Client
	model string
}

// promptArticleLimit bounds how many articles are embedded in the prompt.
const promptArticleLimit = 20

var personas = []string{
	"雷军", "阮一峰", "马斯克", "张小龙", "马化腾", "李彦宏", "周鸿祎", "王小川",
}

func NewAssembler(st *store.Store, aiClient *ai.Client, aiModel string) *Assembler {
	return &Assembler{
		store: st,
		ai:    aiClient,
		model: aiModel,
	}
}

// Generate creates or regenerates the report for targetDate.
func (a *Assembler) Generate(targetDate time.Time) (*model.DailyReport, error) {
	log := logger.ForReport()
	date := store.DateOnly(targetDate)
	dateStr := date.Format("2006-01-02")

	log.Info().Str("date", dateStr).Msg("Generating daily report")

	rep, err := a.findOrCreateReport(date, dateStr)
	if err != nil {
		return nil, err
	}

	articles, err := a.gatherArticles(rep, date)
	if err != nil {
		a.markFailed(date, err)
		return nil, err
	}

	if len(articles) == 0 {
		log.Info().Str("date", dateStr).Msg("No articles available, writing placeholder report")
		a.fillPlaceholder(rep, dateStr)
	} else {
		log.Info().Str("date", dateStr).Int("articles", len(articles)).Msg("Calling AI backend for report content")
		raw := a.ai.Complete(a.model, a.buildPrompt(articles, date))
		a.fillFromAI(rep, raw, articles, date, dateStr)
	}

	rep.Status = model.ReportPublished
	rep.GeneratedAt = time.Now()
	if err := a.store.SaveReport(rep); err != nil {
		a.markFailed(date, err)
		return nil, apperrors.NewReport("failed to save report", err)
	}

	log.Info().Str("date", dateStr).Int("articles", rep.TotalArticles).Msg("Daily report published")
	return rep, nil
}

func (a *Assembler) findOrCreateReport(date time.Time, dateStr string) (*model.DailyReport, error) {
	existing, err := a.store.FindReportByDate(date)
	if err != nil {
		return nil, apperrors.NewReport("failed to look up report", err)
	}
	if existing != nil {
		return existing, nil
	}

	rep := &model.DailyReport{
		ReportDate: date,
		Title:      fmt.Sprintf("%s 技术日报", dateStr),
		Status:     model.ReportDraft,
	}
	if err := a.store.SaveReport(rep); err != nil {
		// Concurrent generation may have created the row first.
		retry, retryErr := a.store.FindReportByDate(date)
		if retryErr == nil && retry != nil {
			return retry, nil
		}
		return nil, apperrors.NewReport("failed to create report", err)
	}
	return rep, nil
}

// gatherArticles prefers the article list a previous run already pinned,
// then the exact day, then a widened window, then popular articles.
func (a *Assembler) gatherArticles(rep *model.DailyReport, date time.Time) ([]model.Article, error) {
	if ids := rep.ArticleIDList(); len(ids) > 0 {
		articles, err := a.store.FindArticlesByIDs(ids)
		if err != nil {
			return nil, apperrors.NewReport("failed to load pinned articles", err)
		}
		if len(articles) > 0 {
			return articles, nil
		}
	}

	articles, err := a.store.FindArticlesByDateRange(date, date.AddDate(0, 0, 1))
	if err != nil {
		return nil, apperrors.NewReport("failed to query articles", err)
	}
	if len(articles) > 0 {
		return articles, nil
	}

	articles, err = a.store.FindArticlesByDateRange(date.AddDate(0, 0, -2), date.AddDate(0, 0, 3))
	if err != nil {
		return nil, apperrors.NewReport("failed to query widened window", err)
	}
	if len(articles) > 0 {
		return articles, nil
	}

	articles, err = a.store.FindPopularArticles(10)
	if err != nil {
		return nil, apperrors.NewReport("failed to query popular articles", err)
	}
	return articles, nil
}

func (a *Assembler) buildPrompt(articles []model.Article, date time.Time) string {
	var list strings.Builder
	for i, art := range articles {
		if i >= promptArticleLimit {
			break
		}
		author := art.Author
		if author == "" {
			author = "未知"
		}
		summary := art.Summary
		if summary == "" {
			summary = "暂无摘要"
		}
		fmt.Fprintf(&list, "%d. 【%s】%s\n   来源：%s | 作者：%s\n   链接：%s\n   摘要：%s\n\n",
			i+1, art.Source, art.Title, art.Source, author, art.URL, summary)
	}

	persona := personas[rand.Intn(len(personas))]
	dateStr := date.Format("2006-01-02")
	solarTerm := SolarTerm(date)

	return fmt.Sprintf(
		"请以[%s]的口吻，写一篇适合发布在技术网站上的技术日报。\n"+
			"文风偏程序员口吻，可以稍带轻松幽默，但要专业，带主观感受，不要机械列举。\n\n"+
			"文章列表：\n%s\n"+
			"请严格按照以下JSON格式返回：\n\n"+
			"{\n"+
			"  \"todayTrends\": \"[今日总结：400字以内，总结今日文章的主要趋势和热点]\",\n"+
			"  \"recommendedArticles\": [\n"+
			"    {\n"+
			"      \"title\": \"[文章标题]\",\n"+
			"      \"url\": \"[原文真实URL]\",\n"+
			"      \"summary\": \"[200字左右的简介]\",\n"+
			"      \"reason\": \"[一句话推荐理由]\",\n"+
			"      \"source\": \"[来源]\",\n"+
			"      \"author\": \"[作者]\"\n"+
			"    }\n"+
			"  ],\n"+
			"  \"dailyQuote\": \"[结合今日日期（%s）和节气（%s），写一句100字以内鼓励程序员的话]\",\n"+
			"  \"solarTerm\": \"%s\"\n"+
			"}\n\n"+
			"注意：推荐文章从列表中选3-5篇最有价值的；返回必须是有效JSON。\n",
		persona, list.String(), dateStr, solarTerm, solarTerm,
	)
}

// structuredReport is the parsed form of a well-behaved AI response.
type structuredReport struct {
	TodayTrends         string                     `json:"todayTrends"`
	RecommendedArticles []model.RecommendedArticle `json:"recommendedArticles"`
	DailyQuote          string                     `json:"dailyQuote"`
	SolarTerm           string                     `json:"solarTerm"`
}

// stripCodeFences removes a leading ```json (or bare ```) fence and the
// trailing ``` that models habitually wrap JSON in.
func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

// tryParseStructured attempts to decode the AI response. The bool reports
// whether the structured path applies; false means callers must fall back
// to treating the response as raw text.
func tryParseStructured(text string) (*structuredReport, bool) {
	var parsed structuredReport
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &parsed); err != nil {
		return nil, false
	}
	if parsed.TodayTrends == "" && len(parsed.RecommendedArticles) == 0 {
		return nil, false
	}
	return &parsed, true
}

func (a *Assembler) fillFromAI(rep *model.DailyReport, raw string, articles []model.Article, date time.Time, dateStr string) {
	log := logger.ForReport()

	rep.Title = fmt.Sprintf("%s 技术日报", dateStr)
	rep.TotalArticles = len(articles)

	ids := make([]uint, 0, len(articles))
	for _, art := range articles {
		ids = append(ids, art.ID)
	}
	rep.ArticleIDs = model.JoinArticleIDs(ids)

	if ai.IsErrorReply(raw) {
		log.Warn().Err(apperrors.NewAI(raw, nil)).Str("date", dateStr).Msg("AI backend returned an error reply")
	}

	parsed, ok := tryParseStructured(raw)
	if !ok {
		log.Warn().Str("date", dateStr).Msg("AI response was not structured JSON, keeping raw text")
		rep.Content = raw
		rep.Summary = truncateRunes(raw, 200)
		rep.TodayTrends = "今日总结解析失败，请查看完整内容"
		rep.DailyQuote = "今天也要加油哦！"
		rep.SolarTerm = SolarTerm(date)
		return
	}

	rep.TodayTrends = parsed.TodayTrends
	rep.DailyQuote = parsed.DailyQuote
	rep.SolarTerm = parsed.SolarTerm
	if rep.SolarTerm == "" {
		rep.SolarTerm = SolarTerm(date)
	}
	if recJSON, err := json.Marshal(parsed.RecommendedArticles); err == nil {
		rep.RecommendedArticles = string(recJSON)
	}

	rep.Content = renderMarkdown(dateStr, parsed)
	rep.Summary = truncateRunes(parsed.TodayTrends, 100)
	if rep.Summary == "" {
		rep.Summary = "今日技术日报"
	}
}

func renderMarkdown(dateStr string, parsed *structuredReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## 📰 %s 技术日报\n\n", dateStr)

	if parsed.TodayTrends != "" {
		b.WriteString("### 📈 今日总结\n\n")
		b.WriteString(parsed.TodayTrends)
		b.WriteString("\n\n")
	}

	if len(parsed.RecommendedArticles) > 0 {
		b.WriteString("### 📚 今日优质文章推荐\n\n")
		for i, rec := range parsed.RecommendedArticles {
			fmt.Fprintf(&b, "#### %d. %s\n\n", i+1, rec.Title)
			fmt.Fprintf(&b, "**🔗 链接：** %s\n\n", rec.URL)
			fmt.Fprintf(&b, "**📝 简介：** %s\n\n", rec.Summary)
			fmt.Fprintf(&b, "**💡 推荐理由：** %s\n\n", rec.Reason)
			b.WriteString("---\n\n")
		}
	}

	if parsed.DailyQuote != "" {
		b.WriteString("### 🌟 每日一语\n\n")
		fmt.Fprintf(&b, "> %s\n\n", parsed.DailyQuote)
	}

	fmt.Fprintf(&b, "---\n*📅 生成时间：%s*", time.Now().Format("2006-01-02 15:04"))
	return b.String()
}

func (a *Assembler) fillPlaceholder(rep *model.DailyReport, dateStr string) {
	rep.Title = fmt.Sprintf("%s 技术日报", dateStr)
	rep.Summary = "今日暂无新文章采集"
	rep.Content = fmt.Sprintf(
		"## 📰 %s 技术日报\n\n"+
			"### 📝 概况\n今日暂无新文章采集，请稍后查看。\n\n"+
			"### 💡 建议\n- 可以手动触发一次采集任务\n- 查看往期日报了解技术趋势\n\n"+
			"### 📊 统计\n- 采集文章数：0 篇\n- 生成时间：%s",
		dateStr, time.Now().Format("2006-01-02 15:04"),
	)
	rep.TodayTrends = "暂无"
	rep.DailyQuote = "暂无"
	rep.SolarTerm = SolarTerm(rep.ReportDate)
	rep.TotalArticles = 0
	rep.ArticleIDs = ""
}

// markFailed records the failure on the report row so a half-generated
// report is never left looking published. Errors here are logged only.
func (a *Assembler) markFailed(date time.Time, cause error) {
	rep, err := a.store.FindReportByDate(date)
	if err != nil || rep == nil {
		return
	}
	rep.Status = model.ReportDraft
	rep.Content = "生成失败：" + cause.Error()
	if err := a.store.SaveReport(rep); err != nil {
		logger.ForReport().Warn().Err(err).Msg("Failed to record report failure")
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
