package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/language"

	"github.com/aniwatch/aniwatch/anime"
)

// printer renders catalog records for the terminal, or as JSON.
type printer struct {
	w    io.Writer
	json bool
	tag  language.Tag
}

func (p printer) page(page *anime.Page) error {
	anime.LocalizePage(page, p.tag)
	if p.json {
		return writeJSON(p.w, page)
	}
	if err := p.list(page.Anime); err != nil {
		return err
	}
	if pg := page.Pagination; pg != nil {
		_, err := fmt.Fprintf(p.w, "\nPage %d/%d (%d titles)\n", pg.CurrentPage, pg.LastPage, pg.Total)
		return err
	}
	return nil
}

func (p printer) list(items []anime.Anime) error {
	for i := range items {
		anime.Localize(&items[i], p.tag)
	}
	if p.json {
		return writeJSON(p.w, items)
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(p.w, "No results")
		return err
	}
	for _, a := range items {
		if _, err := fmt.Fprintf(p.w, "%8d  %s  %s\n", a.ID, a.Title, summary(a)); err != nil {
			return err
		}
	}
	return nil
}

func (p printer) detail(a *anime.Anime) error {
	anime.Localize(a, p.tag)
	if p.json {
		return writeJSON(p.w, a)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (#%d, %s)\n", a.Title, a.ID, a.Provider)
	if a.TitleNative != nil && *a.TitleNative != a.Title {
		fmt.Fprintf(&b, "  Native:    %s\n", *a.TitleNative)
	}
	if a.TitleEnglish != nil {
		fmt.Fprintf(&b, "  English:   %s\n", *a.TitleEnglish)
	}
	fmt.Fprintf(&b, "  Info:      %s\n", summary(*a))
	if a.SourceLabel != "" {
		fmt.Fprintf(&b, "  Source:    %s\n", a.SourceLabel)
	}
	if a.StartDate != nil {
		fmt.Fprintf(&b, "  Aired:     %s", formatDate(a.StartDate))
		if a.EndDate != nil {
			fmt.Fprintf(&b, " to %s", formatDate(a.EndDate))
		}
		b.WriteString("\n")
	}
	if len(a.Genres) > 0 {
		fmt.Fprintf(&b, "  Genres:    %s\n", strings.Join(a.Genres, ", "))
	}
	if len(a.Studios) > 0 {
		names := lo.Map(a.Studios, func(s anime.Studio, _ int) string { return s.Name })
		fmt.Fprintf(&b, "  Studios:   %s\n", strings.Join(names, ", "))
	}
	if a.Trailer != nil && a.Trailer.Site == "youtube" {
		fmt.Fprintf(&b, "  Trailer:   https://www.youtube.com/watch?v=%s\n", a.Trailer.ID)
	}
	if a.Synopsis != nil && *a.Synopsis != "" {
		fmt.Fprintf(&b, "\n%s\n", strings.TrimSpace(*a.Synopsis))
	}
	if len(a.Characters) > 0 {
		b.WriteString("\nCharacters:\n")
		for _, c := range a.Characters[:min(len(a.Characters), 10)] {
			fmt.Fprintf(&b, "  %s (%s)\n", c.Name, c.Role)
		}
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p printer) episodes(episodes []anime.Episode) error {
	if p.json {
		return writeJSON(p.w, episodes)
	}
	if len(episodes) == 0 {
		_, err := fmt.Fprintln(p.w, "No episodes")
		return err
	}
	for _, e := range episodes {
		flags := ""
		if e.Filler {
			flags += " [filler]"
		}
		if e.Recap {
			flags += " [recap]"
		}
		if _, err := fmt.Fprintf(p.w, "%4d  %s%s\n", e.Episode, e.Title, flags); err != nil {
			return err
		}
	}
	return nil
}

func (p printer) people(people []anime.Person) error {
	if p.json {
		return writeJSON(p.w, people)
	}
	if len(people) == 0 {
		_, err := fmt.Fprintln(p.w, "No characters")
		return err
	}
	for _, c := range people {
		if _, err := fmt.Fprintf(p.w, "%8d  %s (%s)\n", c.ID, c.Name, c.Role); err != nil {
			return err
		}
	}
	return nil
}

func (p printer) statistics(s *anime.Statistics) error {
	if p.json {
		return writeJSON(p.w, s)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Watching:      %d\n", s.Watching)
	fmt.Fprintf(&b, "Completed:     %d\n", s.Completed)
	fmt.Fprintf(&b, "On hold:       %d\n", s.OnHold)
	fmt.Fprintf(&b, "Dropped:       %d\n", s.Dropped)
	fmt.Fprintf(&b, "Plan to watch: %d\n", s.PlanToWatch)
	fmt.Fprintf(&b, "Total:         %d\n", s.Total)
	for _, sc := range s.Scores {
		fmt.Fprintf(&b, "  %2d  %6.1f%%  %d\n", sc.Score, sc.Percentage, sc.Votes)
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// summary renders "format · status · episodes · score" from the fields
// present on a.
func summary(a anime.Anime) string {
	parts := make([]string, 0, 4)
	if label, _ := lo.Coalesce(a.FormatLabel, a.Format); label != "" {
		parts = append(parts, label)
	}
	if label, _ := lo.Coalesce(a.StatusLabel, a.Status); label != "" {
		parts = append(parts, label)
	}
	if a.EpisodeCount != nil {
		parts = append(parts, fmt.Sprintf("%d ep", *a.EpisodeCount))
	}
	if a.Score != nil {
		parts = append(parts, fmt.Sprintf("★ %.1f", *a.Score))
	}
	return strings.Join(parts, " · ")
}

func formatDate(d *anime.Date) string {
	switch {
	case d.Year == nil:
		return "?"
	case d.Month == nil:
		return fmt.Sprintf("%d", *d.Year)
	case d.Day == nil:
		return fmt.Sprintf("%d-%02d", *d.Year, *d.Month)
	default:
		return fmt.Sprintf("%d-%02d-%02d", *d.Year, *d.Month, *d.Day)
	}
}
