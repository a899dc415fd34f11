// Package anime defines the provider-agnostic catalog records, the Provider
// contract every data source implements and the Service facade that
// dispatches to the selected provider.
package anime

// Anime is the canonical record produced by every provider.
// Nullable upstream values are pointers and encode as JSON null.
type Anime struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	TitleEnglish       *string  `json:"titleEnglish"`
	TitleNative        *string  `json:"titleNative"`
	CoverImageURL      *string  `json:"coverImageUrl"`
	CoverImageURLLarge *string  `json:"coverImageUrlLarge"`
	Format             string   `json:"format"`
	EpisodeCount       *int     `json:"episodeCount"`
	Status             string   `json:"status"`
	Season             *string  `json:"season"`
	Year               *int     `json:"year"`
	Score              *float64 `json:"score"`
	Popularity         *int     `json:"popularity"`
	Synopsis           *string  `json:"synopsis"`
	Genres             []string `json:"genres"`
	Studios            []Studio `json:"studios"`
	Trailer            *Trailer `json:"trailer"`

	// Detail-only fields, empty on list results.
	BannerImageURL  *string  `json:"bannerImageUrl,omitempty"`
	Source          *string  `json:"source,omitempty"`
	Duration        *int     `json:"duration,omitempty"` // minutes per episode
	StartDate       *Date    `json:"startDate,omitempty"`
	EndDate         *Date    `json:"endDate,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Characters      []Person `json:"characters,omitempty"`
	Staff           []Person `json:"staff,omitempty"`
	Recommendations []Anime  `json:"recommendations,omitempty"`

	// Display labels, set by Localize.
	FormatLabel string `json:"formatLabel,omitempty"`
	StatusLabel string `json:"statusLabel,omitempty"`
	SourceLabel string `json:"sourceLabel,omitempty"`

	Provider string `json:"provider"`
}

// Studio is a production studio credit.
type Studio struct {
	Name string `json:"name"`
}

// Trailer points at a promotional video, e.g. {site: "youtube", id: "..."}.
type Trailer struct {
	Site string `json:"site"`
	ID   string `json:"id"`
}

// Date is a possibly partial calendar date.
type Date struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

// Person is a character or staff credit.
type Person struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	NameNative *string `json:"nameNative"`
	NameFull   *string `json:"nameFull"`
	Role       string  `json:"role"`
	ImageURL   *string `json:"imageUrl,omitempty"`
}

// Page is one page of list results.
type Page struct {
	Anime      []Anime     `json:"anime"`
	Pagination *Pagination `json:"pagination"`
}

// Pagination describes where a Page sits in the full result set.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	LastPage    int  `json:"lastPage"`
	HasNextPage bool `json:"hasNextPage"`
	Total       int  `json:"total"`
}

// EmptyPage is returned when a provider response has no list payload.
func EmptyPage() *Page {
	return &Page{Anime: []Anime{}}
}

// Episode is a single aired episode.
type Episode struct {
	ID            int      `json:"id"`
	Episode       int      `json:"episode"`
	Title         string   `json:"title"`
	TitleJapanese *string  `json:"titleJapanese"`
	TitleRomanji  *string  `json:"titleRomanji"`
	Score         *float64 `json:"score"`
	Filler        bool     `json:"filler"`
	Recap         bool     `json:"recap"`
	ForumURL      *string  `json:"forumUrl"`
	Aired         *string  `json:"aired"`
}

// Statistics summarizes list membership and score votes for one title.
type Statistics struct {
	Watching    int          `json:"watching"`
	Completed   int          `json:"completed"`
	OnHold      int          `json:"onHold"`
	Dropped     int          `json:"dropped"`
	PlanToWatch int          `json:"planToWatch"`
	Total       int          `json:"total"`
	Scores      []ScoreVotes `json:"scores"`
}

// ScoreVotes is the vote count for one score value.
type ScoreVotes struct {
	Score      int     `json:"score"`
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
}
