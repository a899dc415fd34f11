package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/aniwatch/aniwatch/anime"
	"github.com/aniwatch/aniwatch/internal/config"
	"github.com/aniwatch/aniwatch/internal/providers"
)

const version = "0.1.0"

const usage = `Usage: aniwatch [options] <command> [args]

Commands:
  list [page]              Popular titles
  search <query>           Search titles
  detail <id>              Full record of one title
  episodes <id> [page]     Episode list (jikan only)
  top [page]               Top rated titles
  season [year season]     Titles of a season, current season by default
  recs <id>                Recommendations for a title
  characters <id>          Main cast of a title
  stats <id>               List statistics (jikan only)
  providers                Registered providers
  help                     Show this help message
  version                  Show the version

Options:
  --provider, -p <name>    Provider to query (jikan, anilist)
  --json                   Print records as JSON

Environment:
  ANIWATCH_PROVIDER        Default provider (jikan)
  ANIWATCH_LANGUAGE        Label language and AniList Accept-Language (zh-CN)
  ANIWATCH_CACHE_BACKEND   memory, file or redis (file for the CLI)
  ANIWATCH_CACHE_DIR       File cache root (~/.aniwatch_cache)
`

func main() {
	if err := runCLI(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCLI(args []string, out io.Writer) error {
	opts, rest, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		switch rest[0] {
		case "help", "--help", "-h":
			_, err := io.WriteString(out, usage)
			return err
		case "version", "--version", "-v":
			_, err := fmt.Fprintf(out, "aniwatch v%s\n", version)
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// CLI runs share cached responses on disk unless told otherwise.
	if _, set := os.LookupEnv("ANIWATCH_CACHE_BACKEND"); !set {
		cfg.CacheBackend = config.BackendFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := cfg.Logger(os.Stderr)
	registry, closeProviders, err := providers.Setup(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeProviders() }()

	svc := anime.NewService(registry, log)
	opts.language = cfg.LanguageTag()
	return execute(context.Background(), svc, opts, rest, out)
}

type cliOptions struct {
	provider string
	json     bool
	language language.Tag
}

// parseArgs pulls options out of args, wherever they appear.
func parseArgs(args []string) (cliOptions, []string, error) {
	var opts cliOptions
	var rest []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--provider" || arg == "-p":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("%s needs a provider name", arg)
			}
			i++
			opts.provider = args[i]
		case strings.HasPrefix(arg, "--provider="):
			opts.provider = strings.TrimPrefix(arg, "--provider=")
		case arg == "--json":
			opts.json = true
		default:
			rest = append(rest, arg)
		}
	}
	return opts, rest, nil
}

// execute runs one command against svc.
func execute(ctx context.Context, svc *anime.Service, opts cliOptions, args []string, out io.Writer) error {
	if opts.provider != "" {
		name := strings.ToLower(opts.provider)
		svc.SetProvider(name)
		if svc.Provider() != name {
			return fmt.Errorf("provider '%s' not found. Available providers: %v", opts.provider, svc.Providers())
		}
	}
	if len(args) == 0 {
		args = []string{"list"}
	}
	cmd, args := args[0], args[1:]
	p := printer{w: out, json: opts.json, tag: opts.language}

	switch cmd {
	case "list":
		page, err := svc.GetAnimeList(ctx, anime.Params{Page: optionalInt(args, 0)})
		if err != nil {
			return err
		}
		return p.page(page)
	case "search":
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return errors.New("search needs a query")
		}
		page, err := svc.SearchAnime(ctx, query, anime.Params{})
		if err != nil {
			return err
		}
		return p.page(page)
	case "detail":
		id, err := requiredID(cmd, args)
		if err != nil {
			return err
		}
		a, err := svc.GetAnimeDetail(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("anime %d: %w", id, anime.ErrNotFound)
		}
		return p.detail(a)
	case "episodes":
		id, err := requiredID(cmd, args)
		if err != nil {
			return err
		}
		episodes, err := svc.GetEpisodes(ctx, id, anime.Params{Page: optionalInt(args, 1)})
		if err != nil {
			return err
		}
		return p.episodes(episodes)
	case "top":
		page, err := svc.GetTopAnime(ctx, anime.Params{Page: optionalInt(args, 0)})
		if err != nil {
			return err
		}
		return p.page(page)
	case "season":
		year, season := optionalInt(args, 0), ""
		if len(args) > 1 {
			season = strings.ToLower(args[1])
			if !anime.ValidSeason(season) {
				return fmt.Errorf("unknown season %q, want winter, spring, summer or fall", args[1])
			}
		}
		page, err := svc.GetSeasonalAnime(ctx, year, season, anime.Params{})
		if err != nil {
			return err
		}
		return p.page(page)
	case "recs":
		id, err := requiredID(cmd, args)
		if err != nil {
			return err
		}
		recs, err := svc.GetRecommendations(ctx, id)
		if err != nil {
			return err
		}
		return p.list(recs)
	case "characters":
		id, err := requiredID(cmd, args)
		if err != nil {
			return err
		}
		cast, err := svc.GetCharacters(ctx, id)
		if err != nil {
			return err
		}
		return p.people(cast)
	case "stats":
		id, err := requiredID(cmd, args)
		if err != nil {
			return err
		}
		stats, err := svc.GetStatistics(ctx, id)
		if err != nil {
			return err
		}
		if stats == nil {
			return fmt.Errorf("anime %d: %w", id, anime.ErrNotFound)
		}
		return p.statistics(stats)
	case "providers":
		for _, name := range svc.Providers() {
			marker := " "
			if name == svc.Provider() {
				marker = "*"
			}
			if _, err := fmt.Fprintf(out, "%s %s\n", marker, name); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func requiredID(cmd string, args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s needs an anime id", cmd)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid anime id %q", args[0])
	}
	return id, nil
}

// optionalInt returns args[i] as an int, or 0 when absent or malformed.
func optionalInt(args []string, i int) int {
	if i >= len(args) {
		return 0
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
