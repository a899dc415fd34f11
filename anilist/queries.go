package anilist

// AniList enum types. The Go type names double as GraphQL variable types.
type (
	MediaSort   string
	MediaSeason string
	MediaFormat string
	MediaStatus string
)

type Title struct {
	Romaji        *string `graphql:"romaji"`
	English       *string `graphql:"english"`
	Native        *string `graphql:"native"`
	UserPreferred *string `graphql:"userPreferred"`
}

type CoverImage struct {
	ExtraLarge *string `graphql:"extraLarge"`
	Large      *string `graphql:"large"`
	Medium     *string `graphql:"medium"`
}

type FuzzyDate struct {
	Year  *int `graphql:"year"`
	Month *int `graphql:"month"`
	Day   *int `graphql:"day"`
}

type Trailer struct {
	ID   *string `graphql:"id"`
	Site *string `graphql:"site"`
}

type Studios struct {
	Nodes []struct {
		Name string `graphql:"name"`
	} `graphql:"nodes"`
}

type PersonName struct {
	Full          *string `graphql:"full"`
	Native        *string `graphql:"native"`
	UserPreferred *string `graphql:"userPreferred"`
}

// MediaSummary is the field set requested for list entries.
type MediaSummary struct {
	ID           int        `graphql:"id"`
	Title        Title      `graphql:"title"`
	Synonyms     []string   `graphql:"synonyms"`
	CoverImage   CoverImage `graphql:"coverImage"`
	Format       *string    `graphql:"format"`
	Episodes     *int       `graphql:"episodes"`
	Status       *string    `graphql:"status"`
	Season       *string    `graphql:"season"`
	SeasonYear   *int       `graphql:"seasonYear"`
	AverageScore *int       `graphql:"averageScore"`
	Popularity   *int       `graphql:"popularity"`
	Genres       []string   `graphql:"genres"`
	Studios      Studios    `graphql:"studios"`
	Description  *string    `graphql:"description"`
	Trailer      Trailer    `graphql:"trailer"`
}

// MediaDetail is the field set requested for a single title.
type MediaDetail struct {
	ID           int        `graphql:"id"`
	Title        Title      `graphql:"title"`
	Synonyms     []string   `graphql:"synonyms"`
	CoverImage   CoverImage `graphql:"coverImage"`
	BannerImage  *string    `graphql:"bannerImage"`
	Format       *string    `graphql:"format"`
	Episodes     *int       `graphql:"episodes"`
	Status       *string    `graphql:"status"`
	Season       *string    `graphql:"season"`
	SeasonYear   *int       `graphql:"seasonYear"`
	Duration     *int       `graphql:"duration"`
	AverageScore *int       `graphql:"averageScore"`
	Popularity   *int       `graphql:"popularity"`
	Description  *string    `graphql:"description"`
	Genres       []string   `graphql:"genres"`
	Tags         []struct {
		Name string `graphql:"name"`
	} `graphql:"tags"`
	Studios    Studios   `graphql:"studios"`
	Source     *string   `graphql:"source"`
	Trailer    Trailer   `graphql:"trailer"`
	StartDate  FuzzyDate `graphql:"startDate"`
	EndDate    FuzzyDate `graphql:"endDate"`
	Characters struct {
		Edges []struct {
			Role *string `graphql:"role"`
			Node struct {
				ID    int        `graphql:"id"`
				Name  PersonName `graphql:"name"`
				Image struct {
					Large  *string `graphql:"large"`
					Medium *string `graphql:"medium"`
				} `graphql:"image"`
			} `graphql:"node"`
		} `graphql:"edges"`
	} `graphql:"characters(sort: ROLE)"`
	Staff struct {
		Edges []struct {
			Role *string `graphql:"role"`
			Node struct {
				ID   int        `graphql:"id"`
				Name PersonName `graphql:"name"`
			} `graphql:"node"`
		} `graphql:"edges"`
	} `graphql:"staff(sort: RELEVANCE)"`
	Recommendations struct {
		Nodes []struct {
			MediaRecommendation struct {
				ID           int        `graphql:"id"`
				Title        Title      `graphql:"title"`
				Synonyms     []string   `graphql:"synonyms"`
				CoverImage   CoverImage `graphql:"coverImage"`
				Format       *string    `graphql:"format"`
				Status       *string    `graphql:"status"`
				AverageScore *int       `graphql:"averageScore"`
				Episodes     *int       `graphql:"episodes"`
			} `graphql:"mediaRecommendation"`
		} `graphql:"nodes"`
	} `graphql:"recommendations(sort: RATING_DESC)"`
}

type PageInfo struct {
	Total       int  `graphql:"total"`
	CurrentPage int  `graphql:"currentPage"`
	LastPage    int  `graphql:"lastPage"`
	HasNextPage bool `graphql:"hasNextPage"`
	PerPage     int  `graphql:"perPage"`
}

// PageQuery lists media. Every variable is always sent; unset filters are
// null, which AniList treats as absent.
type PageQuery struct {
	Page struct {
		PageInfo PageInfo       `graphql:"pageInfo"`
		Media    []MediaSummary `graphql:"media(type: ANIME, sort: $sort, search: $search, genre: $genre, season: $season, seasonYear: $seasonYear, format: $format, status: $status)"`
	} `graphql:"Page(page: $page, perPage: $perPage)"`
}

// MediaQuery fetches one title.
type MediaQuery struct {
	Media MediaDetail `graphql:"Media(id: $id, type: ANIME)"`
}
