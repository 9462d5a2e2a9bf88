package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"techdaily/internal/model"
	apperrors "techdaily/pkg/errors"
)

// SaveArticle persists a crawled article with insert-if-absent semantics.
// If the URL is already known the existing row is returned together with a
// duplicate error; the stored row is never updated from a refetch.
func (s *Store) SaveArticle(article *model.Article) (*model.Article, error) {
	if article.URL == "" {
		return nil, apperrors.NewValidation(article.Source, "article URL must not be empty")
	}

	existing, err := s.FindArticleByURL(article.URL)
	if err != nil {
		return nil, apperrors.NewStorage(article.Source, "lookup by url failed", err)
	}
	if existing != nil {
		return existing, apperrors.NewDuplicate(article.Source, article.URL)
	}

	if err := s.db.Create(article).Error; err != nil {
		// A concurrent insert can still win the race; the unique index is
		// the actual arbiter.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing, lookupErr := s.FindArticleByURL(article.URL); lookupErr == nil && existing != nil {
				return existing, apperrors.NewDuplicate(article.Source, article.URL)
			}
		}
		return nil, apperrors.NewStorage(article.Source, "insert failed", err)
	}
	return article, nil
}

// FindArticleByURL returns the article with the given URL, or nil when absent
func (s *Store) FindArticleByURL(url string) (*model.Article, error) {
	var article model.Article
	err := s.db.Where("url = ?", url).First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// FindArticleByID returns the article with the given ID, or nil when absent
func (s *Store) FindArticleByID(id uint) (*model.Article, error) {
	var article model.Article
	err := s.db.First(&article, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// UpdateArticleTranslation stores the translated title and advances the
// lifecycle to TRANSLATED. The original fields stay untouched.
func (s *Store) UpdateArticleTranslation(id uint, titleZh string) error {
	return s.db.Model(&model.Article{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title_zh": titleZh,
			"status":   model.ArticleTranslated,
		}).Error
}

// UpdateArticleSummary stores the AI-written Chinese summary
func (s *Store) UpdateArticleSummary(id uint, summaryZh string) error {
	return s.db.Model(&model.Article{}).
		Where("id = ?", id).
		Update("summary_zh", summaryZh).Error
}

// FindArticlesByDateRange returns articles whose publish time falls in
// [start, end), newest first.
func (s *Store) FindArticlesByDateRange(start, end time.Time) ([]model.Article, error) {
	var articles []model.Article
	err := s.db.
		Where("publish_time >= ? AND publish_time < ?", start, end).
		Order("publish_time DESC").
		Find(&articles).Error
	return articles, err
}

// FindArticlesByIDs returns the articles with the given IDs
func (s *Store) FindArticlesByIDs(ids []uint) ([]model.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var articles []model.Article
	err := s.db.Where("id IN ?", ids).Find(&articles).Error
	return articles, err
}

// FindPopularArticles returns the most viewed articles, bounded by limit
func (s *Store) FindPopularArticles(limit int) ([]model.Article, error) {
	var articles []model.Article
	err := s.db.
		Order("views DESC, likes DESC").
		Limit(limit).
		Find(&articles).Error
	return articles, err
}

// CountArticles returns the total number of stored articles
func (s *Store) CountArticles() (int64, error) {
	var count int64
	err := s.db.Model(&model.Article{}).Count(&count).Error
	return count, err
}
