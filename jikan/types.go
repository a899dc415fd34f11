package jikan

// Raw Jikan v4 payloads. Only the fields the normalizer reads are declared.

type AnimeListResponse struct {
	Data       []AnimeJSON     `json:"data"`
	Pagination *PaginationJSON `json:"pagination"`
}

type AnimeResponse struct {
	Data *AnimeJSON `json:"data"`
}

type PaginationJSON struct {
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
	CurrentPage     int  `json:"current_page"`
	Items           struct {
		Count   int `json:"count"`
		Total   int `json:"total"`
		PerPage int `json:"per_page"`
	} `json:"items"`
}

type AnimeJSON struct {
	MalID         int            `json:"mal_id"`
	URL           string         `json:"url"`
	Images        ImagesJSON     `json:"images"`
	Trailer       *TrailerJSON   `json:"trailer"`
	Title         string         `json:"title"`
	TitleEnglish  *string        `json:"title_english"`
	TitleJapanese *string        `json:"title_japanese"`
	TitleSynonyms []string       `json:"title_synonyms"`
	Type          *string        `json:"type"`
	Source        *string        `json:"source"`
	Episodes      *int           `json:"episodes"`
	Status        *string        `json:"status"`
	Airing        bool           `json:"airing"`
	Aired         *AiredJSON     `json:"aired"`
	Duration      *string        `json:"duration"`
	Rating        *string        `json:"rating"`
	Score         *float64       `json:"score"`
	ScoredBy      *int           `json:"scored_by"`
	Rank          *int           `json:"rank"`
	Popularity    *int           `json:"popularity"`
	Members       *int           `json:"members"`
	Favorites     *int           `json:"favorites"`
	Synopsis      *string        `json:"synopsis"`
	Background    *string        `json:"background"`
	Season        *string        `json:"season"`
	Year          *int           `json:"year"`
	Studios       []ResourceJSON `json:"studios"`
	Genres        []ResourceJSON `json:"genres"`
	Themes        []ResourceJSON `json:"themes"`
	Demographics  []ResourceJSON `json:"demographics"`
}

type ImagesJSON struct {
	JPG  ImageSetJSON `json:"jpg"`
	WebP ImageSetJSON `json:"webp"`
}

type ImageSetJSON struct {
	ImageURL      *string `json:"image_url"`
	SmallImageURL *string `json:"small_image_url"`
	LargeImageURL *string `json:"large_image_url"`
}

type TrailerJSON struct {
	YoutubeID *string `json:"youtube_id"`
	URL       *string `json:"url"`
	EmbedURL  *string `json:"embed_url"`
}

type AiredJSON struct {
	From   *string `json:"from"`
	To     *string `json:"to"`
	String string  `json:"string"`
	Prop   struct {
		From DateJSON `json:"from"`
		To   DateJSON `json:"to"`
	} `json:"prop"`
}

type DateJSON struct {
	Day   *int `json:"day"`
	Month *int `json:"month"`
	Year  *int `json:"year"`
}

// ResourceJSON is a named MAL entity (studio, genre, theme).
type ResourceJSON struct {
	MalID int    `json:"mal_id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

type EpisodesResponse struct {
	Data       []EpisodeJSON   `json:"data"`
	Pagination *PaginationJSON `json:"pagination"`
}

type EpisodeJSON struct {
	MalID         int      `json:"mal_id"`
	URL           *string  `json:"url"`
	Title         string   `json:"title"`
	TitleJapanese *string  `json:"title_japanese"`
	TitleRomanji  *string  `json:"title_romanji"`
	Aired         *string  `json:"aired"`
	Score         *float64 `json:"score"`
	Filler        bool     `json:"filler"`
	Recap         bool     `json:"recap"`
	ForumURL      *string  `json:"forum_url"`
}

type RecommendationsResponse struct {
	Data []RecommendationJSON `json:"data"`
}

type RecommendationJSON struct {
	Entry struct {
		MalID  int        `json:"mal_id"`
		URL    string     `json:"url"`
		Images ImagesJSON `json:"images"`
		Title  string     `json:"title"`
	} `json:"entry"`
	Votes int `json:"votes"`
}

type CharactersResponse struct {
	Data []CharacterRoleJSON `json:"data"`
}

type CharacterRoleJSON struct {
	Character struct {
		MalID  int        `json:"mal_id"`
		URL    string     `json:"url"`
		Images ImagesJSON `json:"images"`
		Name   string     `json:"name"`
	} `json:"character"`
	Role        string `json:"role"`
	Favorites   int    `json:"favorites"`
	VoiceActors []struct {
		Person struct {
			MalID int    `json:"mal_id"`
			Name  string `json:"name"`
		} `json:"person"`
		Language string `json:"language"`
	} `json:"voice_actors"`
}

type StatisticsResponse struct {
	Data *StatisticsJSON `json:"data"`
}

type StatisticsJSON struct {
	Watching    int `json:"watching"`
	Completed   int `json:"completed"`
	OnHold      int `json:"on_hold"`
	Dropped     int `json:"dropped"`
	PlanToWatch int `json:"plan_to_watch"`
	Total       int `json:"total"`
	Scores      []struct {
		Score      int     `json:"score"`
		Votes      int     `json:"votes"`
		Percentage float64 `json:"percentage"`
	} `json:"scores"`
}
