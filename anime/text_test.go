package anime

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestResolveTitle(t *testing.T) {
	tests := []struct {
		name   string
		titles Titles
		want   string
	}{
		{
			name:   "native with Han characters wins",
			titles: Titles{UserPreferred: "Jujutsu Kaisen", Native: "咒术回战"},
			want:   "咒术回战",
		},
		{
			name:   "romanized native falls back to user preferred",
			titles: Titles{UserPreferred: "Attack on Titan", Native: "Shingeki no Kyojin"},
			want:   "Attack on Titan",
		},
		{
			name:   "kana-only native does not count",
			titles: Titles{UserPreferred: "Yuru Camp", Native: "ゆるきゃん△", Chinese: "摇曳露营"},
			want:   "摇曳露营",
		},
		{
			name:   "chinese beats user preferred",
			titles: Titles{UserPreferred: "Sousou no Frieren", Chinese: "葬送的芙莉莲"},
			want:   "葬送的芙莉莲",
		},
		{
			name:   "romaji when user preferred is empty",
			titles: Titles{Romaji: "Kimi no Na wa.", English: "Your Name."},
			want:   "Kimi no Na wa.",
		},
		{
			name:   "english as last resort",
			titles: Titles{English: "Your Name."},
			want:   "Your Name.",
		},
		{
			name: "nothing",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTitle(tt.titles))
		})
	}
}

func TestChineseSynonym(t *testing.T) {
	assert.Equal(t, "葬送的芙莉莲", ChineseSynonym([]string{"Frieren", "フリーレン", "葬送的芙莉莲"}))
	assert.Equal(t, "", ChineseSynonym([]string{"Frieren", "葬送のフリーレン"}))
	assert.Equal(t, "", ChineseSynonym(nil))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "A story.", StripHTML("<p>A story.</p>"))
	assert.Equal(t, "Line one\nLine two", StripHTML("Line one<br>\nLine two"))
	assert.Equal(t, "Tom &amp; Jerry", StripHTML("<i>Tom &amp; Jerry</i>"), "entities are not decoded")

	assert.Nil(t, StripHTMLPtr(nil))
	s := "<b>bold</b>"
	assert.Equal(t, "bold", *StripHTMLPtr(&s))
}

func TestNonEmpty(t *testing.T) {
	assert.Nil(t, NonEmpty(""))
	assert.Nil(t, NonEmpty("   "))
	assert.Equal(t, "x", *NonEmpty("x"))
}

func TestParamsFromValues(t *testing.T) {
	v := url.Values{
		"page":     {"3"},
		"limit":    {"12"},
		"order_by": {"score"},
		"order":    {"ASC"},
		"q":        {"frieren"},
		"type":     {"tv"},
		"status":   {"airing"},
		"rating":   {"pg13"},
		"genre":    {"Fantasy"},
		"season":   {"Fall"},
		"year":     {"2023"},
		"unknown":  {"dropped"},
	}

	assert.Equal(t, Params{
		Page:       3,
		PerPage:    12,
		Sort:       "score",
		Order:      "asc",
		Search:     "frieren",
		Format:     "tv",
		Status:     "airing",
		Rating:     "pg13",
		Genre:      "Fantasy",
		Season:     "fall",
		SeasonYear: 2023,
	}, ParamsFromValues(v))
}

func TestParamsFromValuesPrefersCanonicalNames(t *testing.T) {
	v := url.Values{"perPage": {"5"}, "limit": {"50"}, "sort": {"title"}, "order_by": {"score"}, "page": {"-1"}}

	p := ParamsFromValues(v)
	assert.Equal(t, 5, p.PerPage)
	assert.Equal(t, "title", p.Sort)
	assert.Equal(t, 0, p.Page, "non-positive numbers are dropped")
}

func TestCurrentSeason(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.January, Winter},
		{time.February, Winter},
		{time.March, Spring},
		{time.May, Spring},
		{time.June, Summer},
		{time.August, Summer},
		{time.September, Fall},
		{time.November, Fall},
		{time.December, Winter},
	}
	for _, tt := range tests {
		year, season := CurrentSeason(time.Date(2024, tt.month, 15, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, 2024, year)
		assert.Equal(t, tt.want, season, tt.month.String())
	}
	assert.True(t, ValidSeason(Fall))
	assert.False(t, ValidSeason("autumn"))
}

func TestLocalize(t *testing.T) {
	source := "LIGHT_NOVEL"
	a := &Anime{
		Format: "TV",
		Status: "FINISHED",
		Source: &source,
		Recommendations: []Anime{
			{Format: "Movie", Status: "Currently Airing"},
		},
	}

	Localize(a, language.MustParse("zh-CN"))
	assert.Equal(t, "TV动画", a.FormatLabel)
	assert.Equal(t, "已完结", a.StatusLabel)
	assert.Equal(t, "轻小说", a.SourceLabel)
	assert.Equal(t, "剧场版", a.Recommendations[0].FormatLabel)
	assert.Equal(t, "连载中", a.Recommendations[0].StatusLabel)

	Localize(a, language.English)
	assert.Equal(t, "TV", a.FormatLabel)
	assert.Equal(t, "FINISHED", a.StatusLabel)
}

func TestLabelsPassUnknownValuesThrough(t *testing.T) {
	zh := language.SimplifiedChinese
	assert.Equal(t, "CM", FormatLabel("CM", zh))
	assert.Equal(t, "Paused", StatusLabel("Paused", zh))
	assert.Equal(t, "Web manga", SourceLabel("Web manga", zh))
	assert.Equal(t, "已完结", StatusLabel("Finished Airing", zh))
}

func TestParseAcceptLanguage(t *testing.T) {
	assert.Equal(t, language.SimplifiedChinese, ParseAcceptLanguage("zh-CN,zh;q=0.9,en;q=0.8"))
	assert.Equal(t, language.English, ParseAcceptLanguage("en-US,en;q=0.9"))
	assert.Equal(t, language.English, ParseAcceptLanguage(""))
}
