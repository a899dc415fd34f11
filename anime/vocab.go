package anime

import (
	"golang.org/x/text/language"
)

// Display labels for provider vocabulary. English labels are the provider
// values themselves, so only the Chinese tables are spelled out.
var (
	zhFormats = map[string]string{
		"TV":       "TV动画",
		"TV_SHORT": "TV短篇",
		"OVA":      "OVA",
		"ONA":      "ONA",
		"MOVIE":    "剧场版",
		"Movie":    "剧场版",
		"SPECIAL":  "特别篇",
		"Special":  "特别篇",
		"MUSIC":    "音乐",
		"Music":    "音乐",
	}

	zhStatuses = map[string]string{
		"FINISHED":         "已完结",
		"Finished Airing":  "已完结",
		"finished_airing":  "已完结",
		"RELEASING":        "连载中",
		"Currently Airing": "连载中",
		"currently_airing": "连载中",
		"airing":           "连载中",
		"NOT_YET_RELEASED": "未播出",
		"Not yet aired":    "未播出",
		"not_yet_aired":    "未播出",
		"upcoming":         "即将播出",
		"CANCELLED":        "已取消",
		"HIATUS":           "休止中",
	}

	zhSources = map[string]string{
		"ORIGINAL":     "原创",
		"Original":     "原创",
		"MANGA":        "漫画",
		"Manga":        "漫画",
		"LIGHT_NOVEL":  "轻小说",
		"Light novel":  "轻小说",
		"VISUAL_NOVEL": "视觉小说",
		"Visual novel": "视觉小说",
		"VIDEO_GAME":   "游戏",
		"Video game":   "游戏",
		"OTHER":        "其他",
		"Other":        "其他",
	}
)

var (
	supportedLanguages = []language.Tag{language.English, language.SimplifiedChinese}
	languageMatcher    = language.NewMatcher(supportedLanguages)
)

type vocabulary struct {
	formats, statuses, sources map[string]string
}

func (v vocabulary) label(table map[string]string, value string) string {
	if l, ok := table[value]; ok {
		return l
	}
	return value
}

func vocabularyFor(tag language.Tag) vocabulary {
	if MatchLanguage(tag) == language.SimplifiedChinese {
		return vocabulary{formats: zhFormats, statuses: zhStatuses, sources: zhSources}
	}
	return vocabulary{}
}

// MatchLanguage returns the supported label language closest to tag.
func MatchLanguage(tags ...language.Tag) language.Tag {
	_, idx, _ := languageMatcher.Match(tags...)
	return supportedLanguages[idx]
}

// ParseAcceptLanguage matches an Accept-Language header value. Malformed
// headers fall back to English.
func ParseAcceptLanguage(header string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	return MatchLanguage(tags...)
}

// FormatLabel translates a format value, passing unknown values through.
func FormatLabel(value string, tag language.Tag) string {
	v := vocabularyFor(tag)
	return v.label(v.formats, value)
}

// StatusLabel translates a status value, passing unknown values through.
func StatusLabel(value string, tag language.Tag) string {
	v := vocabularyFor(tag)
	return v.label(v.statuses, value)
}

// SourceLabel translates a source value, passing unknown values through.
func SourceLabel(value string, tag language.Tag) string {
	v := vocabularyFor(tag)
	return v.label(v.sources, value)
}

// Localize fills the display labels of a and its recommendations.
func Localize(a *Anime, tag language.Tag) {
	if a == nil {
		return
	}
	v := vocabularyFor(tag)
	a.FormatLabel = v.label(v.formats, a.Format)
	a.StatusLabel = v.label(v.statuses, a.Status)
	if a.Source != nil {
		a.SourceLabel = v.label(v.sources, *a.Source)
	}
	for i := range a.Recommendations {
		Localize(&a.Recommendations[i], tag)
	}
}

// LocalizePage fills the display labels of every record on p.
func LocalizePage(p *Page, tag language.Tag) {
	if p == nil {
		return
	}
	for i := range p.Anime {
		Localize(&p.Anime[i], tag)
	}
}
