package trends

import (
	"fmt"

	"github.com/pulsefeed/pulse-api/internal/domain"
)

// maxIdeas caps the idea list produced by a full monitoring run.
const maxIdeas = 20

// GenerateIdeas derives content-idea drafts from a single trend using
// fixed phrase templates: two video ideas and one text-post idea. The
// estimated popularity discounts the trend score because derived
// content never performs as well as the trend itself.
func GenerateIdeas(trend *domain.Trend) []domain.ContentIdea {
	videoTitles := []string{
		fmt.Sprintf("Как использовать %s для получения подарков в Telegram", trend.Keyword),
		fmt.Sprintf("Топ-5 %s ботов для бесплатных подарков", trend.Keyword),
	}
	textTitles := []string{
		fmt.Sprintf("Подробный гид по %s в Telegram", trend.Keyword),
	}

	keywords := append([]string{trend.Keyword}, trend.Hashtags...)

	ideas := make([]domain.ContentIdea, 0, len(videoTitles)+len(textTitles))
	for _, title := range videoTitles {
		ideas = append(ideas, domain.ContentIdea{
			Type:                domain.ContentTypeVideo,
			Title:               title,
			Description:         fmt.Sprintf("Видео на основе тренда: %s", trend.Title),
			Keywords:            keywords,
			SourceTrend:         trend.Title,
			EstimatedPopularity: trend.PopularityScore * 0.8,
			Platforms:           []domain.Platform{domain.PlatformTikTok, domain.PlatformYouTube, domain.PlatformTelegram},
		})
	}
	for _, title := range textTitles {
		ideas = append(ideas, domain.ContentIdea{
			Type:                domain.ContentTypeText,
			Title:               title,
			Description:         fmt.Sprintf("Пост на основе тренда: %s", trend.Title),
			Keywords:            keywords,
			SourceTrend:         trend.Title,
			EstimatedPopularity: trend.PopularityScore * 0.6,
			Platforms:           []domain.Platform{domain.PlatformTelegram},
		})
	}
	return ideas
}

// AnalyzeTrends produces the combined idea list for a full trend set,
// capped at 20 entries.
func AnalyzeTrends(trendSet []*domain.Trend) []domain.ContentIdea {
	var ideas []domain.ContentIdea
	for _, trend := range trendSet {
		ideas = append(ideas, GenerateIdeas(trend)...)
		if len(ideas) >= maxIdeas {
			break
		}
	}
	if len(ideas) > maxIdeas {
		ideas = ideas[:maxIdeas]
	}
	return ideas
}
