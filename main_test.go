package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/aniwatch/aniwatch/anime"
)

func ptr[T any](v T) *T { return &v }

// cliProvider is a canned provider for command tests.
type cliProvider struct {
	name       string
	lastPage   int
	lastSeason string
	lastQuery  string
}

func (p *cliProvider) Name() string { return p.name }

func (p *cliProvider) ListAnime(ctx context.Context, params anime.Params) (*anime.Page, error) {
	p.lastPage = params.Page
	return &anime.Page{
		Anime: []anime.Anime{{
			ID:           5114,
			Title:        "鋼の錬金術師",
			Format:       "TV",
			Status:       "FINISHED",
			EpisodeCount: ptr(64),
			Score:        ptr(9.1),
			Provider:     p.name,
		}},
		Pagination: &anime.Pagination{CurrentPage: max(params.Page, 1), LastPage: 4, Total: 80},
	}, nil
}

func (p *cliProvider) SearchAnime(ctx context.Context, query string, filters anime.Params) (*anime.Page, error) {
	p.lastQuery = query
	return p.ListAnime(ctx, filters)
}

func (p *cliProvider) GetDetail(ctx context.Context, id int) (*anime.Anime, error) {
	if id != 5114 {
		return nil, nil
	}
	return &anime.Anime{
		ID:          5114,
		Title:       "鋼の錬金術師",
		TitleNative: ptr("鋼の錬金術師 FULLMETAL ALCHEMIST"),
		Format:      "TV",
		Status:      "FINISHED",
		Source:      ptr("Manga"),
		StartDate:   &anime.Date{Year: ptr(2009), Month: ptr(4), Day: ptr(5)},
		Genres:      []string{"Action", "Adventure"},
		Studios:     []anime.Studio{{Name: "Bones"}},
		Trailer:     &anime.Trailer{Site: "youtube", ID: "abc"},
		Synopsis:    ptr("Two brothers search for the stone."),
		Characters:  []anime.Person{{ID: 11, Name: "Edward Elric", Role: "Main"}},
		Provider:    p.name,
	}, nil
}

func (p *cliProvider) GetEpisodes(ctx context.Context, id int, params anime.Params) ([]anime.Episode, error) {
	p.lastPage = params.Page
	return []anime.Episode{{ID: 1, Episode: 1, Title: "Fullmetal Alchemist"}, {ID: 2, Episode: 2, Title: "The First Day", Recap: true}}, nil
}

// plainProvider offers only the base operations.
type plainProvider struct{ cliProvider }

type browsingCLIProvider struct{ *cliProvider }

func (p browsingCLIProvider) TopAnime(ctx context.Context, params anime.Params) (*anime.Page, error) {
	return p.ListAnime(ctx, params)
}

func (p browsingCLIProvider) SeasonalAnime(ctx context.Context, year int, season string, params anime.Params) (*anime.Page, error) {
	p.lastSeason = season
	return p.ListAnime(ctx, params)
}

func (p browsingCLIProvider) Recommendations(ctx context.Context, id int) ([]anime.Anime, error) {
	return []anime.Anime{}, nil
}

func (p browsingCLIProvider) Characters(ctx context.Context, id int) ([]anime.Person, error) {
	return []anime.Person{{ID: 11, Name: "Edward Elric", Role: "Main"}}, nil
}

func (p browsingCLIProvider) Statistics(ctx context.Context, id int) (*anime.Statistics, error) {
	if id != 5114 {
		return nil, nil
	}
	return &anime.Statistics{Watching: 10, Completed: 20, Total: 30, Scores: []anime.ScoreVotes{{Score: 10, Votes: 5, Percentage: 50}}}, nil
}

func newCLIService() (*anime.Service, *cliProvider) {
	primary := &cliProvider{name: "jikan"}
	registry := anime.NewRegistry()
	registry.Register(browsingCLIProvider{primary})
	registry.Register(&plainProvider{cliProvider{name: "anilist"}})
	return anime.NewService(registry, zerolog.Nop()), primary
}

func runCommand(t *testing.T, opts cliOptions, args ...string) (string, error) {
	t.Helper()
	svc, _ := newCLIService()
	var out bytes.Buffer
	err := execute(context.Background(), svc, opts, args, &out)
	return out.String(), err
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args     []string
		provider string
		json     bool
		rest     []string
	}{
		{[]string{"list"}, "", false, []string{"list"}},
		{[]string{"-p", "anilist", "detail", "1"}, "anilist", false, []string{"detail", "1"}},
		{[]string{"search", "--provider", "jikan", "one", "piece"}, "jikan", false, []string{"search", "one", "piece"}},
		{[]string{"--provider=anilist", "--json", "top"}, "anilist", true, []string{"top"}},
	}

	for _, tt := range tests {
		opts, rest, err := parseArgs(tt.args)
		if err != nil {
			t.Fatalf("parseArgs(%v) failed: %v", tt.args, err)
		}
		if opts.provider != tt.provider || opts.json != tt.json {
			t.Errorf("parseArgs(%v) = %+v, want provider %q json %v", tt.args, opts, tt.provider, tt.json)
		}
		if strings.Join(rest, " ") != strings.Join(tt.rest, " ") {
			t.Errorf("parseArgs(%v) rest = %v, want %v", tt.args, rest, tt.rest)
		}
	}

	if _, _, err := parseArgs([]string{"list", "-p"}); err == nil {
		t.Error("expected error for -p without a value")
	}
}

func TestHelpAndVersion(t *testing.T) {
	var out bytes.Buffer
	if err := runCLI([]string{"help"}, &out); err != nil {
		t.Fatalf("help failed: %v", err)
	}
	if !strings.Contains(out.String(), "Usage: aniwatch") {
		t.Errorf("help output missing usage: %q", out.String())
	}

	out.Reset()
	if err := runCLI([]string{"--version"}, &out); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out.String() != "aniwatch v"+version+"\n" {
		t.Errorf("version output = %q", out.String())
	}
}

func TestListCommand(t *testing.T) {
	svc, p := newCLIService()
	var out bytes.Buffer
	if err := execute(context.Background(), svc, cliOptions{language: language.SimplifiedChinese}, []string{"list", "2"}, &out); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if p.lastPage != 2 {
		t.Errorf("page = %d, want 2", p.lastPage)
	}
	want := "    5114  鋼の錬金術師  TV动画 · 已完结 · 64 ep · ★ 9.1\n\nPage 2/4 (80 titles)\n"
	if out.String() != want {
		t.Errorf("list output = %q, want %q", out.String(), want)
	}
}

func TestDefaultCommandIsList(t *testing.T) {
	out, err := runCommand(t, cliOptions{language: language.English})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "TV · FINISHED") {
		t.Errorf("expected English labels, got %q", out)
	}
}

func TestDetailCommand(t *testing.T) {
	out, err := runCommand(t, cliOptions{language: language.English}, "detail", "5114")
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	for _, want := range []string{
		"鋼の錬金術師 (#5114, jikan)",
		"Native:    鋼の錬金術師 FULLMETAL ALCHEMIST",
		"Source:    Manga",
		"Aired:     2009-04-05",
		"Studios:   Bones",
		"https://www.youtube.com/watch?v=abc",
		"Edward Elric (Main)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("detail output missing %q:\n%s", want, out)
		}
	}

	_, err = runCommand(t, cliOptions{}, "detail", "1")
	if !errors.Is(err, anime.ErrNotFound) {
		t.Errorf("missing detail error = %v, want ErrNotFound", err)
	}
}

func TestJSONOutput(t *testing.T) {
	out, err := runCommand(t, cliOptions{json: true, language: language.SimplifiedChinese}, "detail", "5114")
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if !strings.Contains(out, `"formatLabel": "TV动画"`) || !strings.Contains(out, `"sourceLabel": "漫画"`) {
		t.Errorf("JSON output missing localized labels:\n%s", out)
	}
}

func TestEpisodesCommand(t *testing.T) {
	svc, p := newCLIService()
	var out bytes.Buffer
	if err := execute(context.Background(), svc, cliOptions{}, []string{"episodes", "5114", "3"}, &out); err != nil {
		t.Fatalf("episodes failed: %v", err)
	}
	if p.lastPage != 3 {
		t.Errorf("page = %d, want 3", p.lastPage)
	}
	if !strings.Contains(out.String(), "   2  The First Day [recap]") {
		t.Errorf("episodes output = %q", out.String())
	}
}

func TestSeasonCommand(t *testing.T) {
	svc, p := newCLIService()
	var out bytes.Buffer
	if err := execute(context.Background(), svc, cliOptions{}, []string{"season", "2009", "Spring"}, &out); err != nil {
		t.Fatalf("season failed: %v", err)
	}
	if p.lastSeason != "spring" {
		t.Errorf("season = %q, want spring", p.lastSeason)
	}

	if _, err := runCommand(t, cliOptions{}, "season", "2009", "monsoon"); err == nil {
		t.Error("expected error for unknown season")
	}
}

func TestProviderFlag(t *testing.T) {
	out, err := runCommand(t, cliOptions{provider: "anilist"}, "providers")
	if err != nil {
		t.Fatalf("providers failed: %v", err)
	}
	if out != "* anilist\n  jikan\n" {
		t.Errorf("providers output = %q", out)
	}

	if _, err := runCommand(t, cliOptions{provider: "kitsu"}, "list"); err == nil {
		t.Error("expected error for unknown provider")
	}

	_, err = runCommand(t, cliOptions{provider: "anilist"}, "stats", "5114")
	if !errors.Is(err, anime.ErrUnsupported) {
		t.Errorf("stats on anilist error = %v, want ErrUnsupported", err)
	}
}

func TestStatsCommand(t *testing.T) {
	out, err := runCommand(t, cliOptions{}, "stats", "5114")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out, "Completed:     20") || !strings.Contains(out, "  10    50.0%  5") {
		t.Errorf("stats output = %q", out)
	}
}

func TestStatsCommandMissingData(t *testing.T) {
	out, err := runCommand(t, cliOptions{}, "stats", "1")
	if !errors.Is(err, anime.ErrNotFound) {
		t.Errorf("stats on missing data error = %v, want ErrNotFound", err)
	}
	if out != "" {
		t.Errorf("stats on missing data printed %q", out)
	}
}

func TestCommandErrors(t *testing.T) {
	tests := [][]string{
		{"detail"},
		{"detail", "abc"},
		{"recs", "-3"},
		{"search"},
		{"rewatch"},
	}
	for _, args := range tests {
		if _, err := runCommand(t, cliOptions{}, args...); err == nil {
			t.Errorf("execute(%v) expected error", args)
		}
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		date *anime.Date
		want string
	}{
		{&anime.Date{}, "?"},
		{&anime.Date{Year: ptr(2009)}, "2009"},
		{&anime.Date{Year: ptr(2009), Month: ptr(4)}, "2009-04"},
		{&anime.Date{Year: ptr(2009), Month: ptr(4), Day: ptr(5)}, "2009-04-05"},
	}
	for _, tt := range tests {
		if got := formatDate(tt.date); got != tt.want {
			t.Errorf("formatDate(%+v) = %q, want %q", tt.date, got, tt.want)
		}
	}
}
