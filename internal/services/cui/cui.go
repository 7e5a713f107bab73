package cui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"jokefetch/internal/domain/models"
	"jokefetch/internal/lib/logger/sl"
	"jokefetch/internal/services/fts"

	"github.com/jroimartin/gocui"
)

type CUI struct {
	ctx        context.Context
	cui        *gocui.Gui
	ftsService *fts.FTS
	log        *slog.Logger
	maxResults int
}

func New(ctx context.Context, log *slog.Logger, ftsService *fts.FTS, maxResults int) *CUI {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Error("failed to create GUI", sl.Err(err))
		os.Exit(1)
	}
	return &CUI{
		ctx:        ctx,
		cui:        g,
		ftsService: ftsService,
		log:        log,
		maxResults: maxResults,
	}
}

func (c *CUI) Close() {
	c.cui.Close()
}

func (c *CUI) Start() error {
	c.cui.Cursor = true
	c.cui.SetManagerFunc(c.layout)
	defer c.cui.Close()

	if err := c.cui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		c.log.Error("failed to set keybinding", sl.Err(err))
	}
	if err := c.cui.SetKeybinding("input", gocui.KeyEnter, gocui.ModNone, func(g *gocui.Gui, v *gocui.View) error {
		searchQuery := strings.TrimSpace(v.Buffer())
		return c.search(g, v, c.ctx, searchQuery)
	}); err != nil {
		c.log.Error("failed to set keybinding", sl.Err(err))
	}

	if err := c.cui.SetKeybinding("output", gocui.KeyArrowDown, gocui.ModNone, scrollDown); err != nil {
		c.log.Error("failed to set keybinding", sl.Err(err))
	}
	if err := c.cui.SetKeybinding("output", gocui.KeyArrowUp, gocui.ModNone, scrollUp); err != nil {
		c.log.Error("failed to set keybinding", sl.Err(err))
	}
	if err := c.cui.SetKeybinding("maxResults", gocui.KeyEnter, gocui.ModNone, func(g *gocui.Gui, v *gocui.View) error {
		return c.setMaxResults(g, v)
	}); err != nil {
		c.log.Error("failed to set keybinding", sl.Err(err))
	}

	if err := c.cui.SetKeybinding("", gocui.KeyTab, gocui.ModNone, func(g *gocui.Gui, v *gocui.View) error {
		currentView := g.CurrentView().Name()
		if currentView == "input" {
			_, _ = g.SetCurrentView("maxResults")
		} else if currentView == "maxResults" {
			_, _ = g.SetCurrentView("output")
		} else {
			_, _ = g.SetCurrentView("input")
		}
		return nil
	}); err != nil {
		c.log.Error("failed to set keybinding", sl.Err(err))
	}

	if err := c.cui.MainLoop(); err != nil && err != gocui.ErrQuit {
		c.log.Error("failed to run GUI", sl.Err(err))
	}

	return nil
}

func (c *CUI) setMaxResults(g *gocui.Gui, v *gocui.View) error {
	maxResultsStr := strings.TrimSpace(v.Buffer())
	if maxResultsInt, err := strconv.Atoi(maxResultsStr); err == nil {
		c.maxResults = maxResultsInt
	}
	return nil
}

func scrollDown(g *gocui.Gui, v *gocui.View) error {
	_, oy := v.Origin()
	_, sy := v.Size()

	lines := len(v.BufferLines())

	if oy+sy < lines {
		v.SetOrigin(0, oy+1)
	}
	return nil
}

func scrollUp(g *gocui.Gui, v *gocui.View) error {
	_, oy := v.Origin()
	if oy > 0 {
		v.SetOrigin(0, oy-1)
	}
	return nil
}

func (c *CUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if maxX < 10 || maxY < 6 {
		return fmt.Errorf("terminal window is too small")
	}

	// Left sidebar for search timings
	if v, err := g.SetView("time", 0, 0, maxX/4, maxY-2); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = "Time Measurements"
		v.Wrap = true
		v.Frame = true
	}

	// Search input, right side, top
	if v, err := g.SetView("input", maxX/4+1, 2, maxX-2, 4); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Editable = true
		v.Title = "Search"
		v.Wrap = true
		_, _ = g.SetCurrentView("input")
	}

	// Max results input, below the search input
	if v, err := g.SetView("maxResults", maxX/4+1, 5, maxX/2, 7); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Editable = true
		v.Title = "Max Results"
		v.Wrap = true

		fmt.Fprintf(v, "%d", c.maxResults)
	}

	// Results, below max results
	if v, err := g.SetView("output", maxX/4+1, 8, maxX-2, maxY-2); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = "Results"
		v.Wrap = true
		v.Clear()
	}

	return nil
}

func (c *CUI) search(g *gocui.Gui, v *gocui.View, ctx context.Context, searchQuery string) error {
	searchQuery = strings.TrimSpace(v.Buffer())

	results, timings, totalResultsCount, err := c.performSearch(searchQuery, ctx)

	timeView, viewErr := g.View("time")
	if viewErr != nil {
		return viewErr
	}
	timeView.Clear()

	outputView, viewErr := g.View("output")
	if viewErr != nil {
		return viewErr
	}
	outputView.Clear()

	if err != nil {
		fmt.Fprintf(outputView, "\033[31mSearch failed: %v\033[0m\n", err)
		_, _ = g.SetCurrentView("input")
		return nil
	}

	fmt.Fprintln(timeView, "\033[33mSearch Time:\033[0m")

	for phase, duration := range timings {
		fmt.Fprintf(timeView, "\033[32m%s: %s\033[0m\n", phase, duration)
	}

	fmt.Fprintf(outputView, "\033[33mTotal Results Count: %d\033[0m\n", totalResultsCount)

	for i, result := range results {
		if i >= c.maxResults {
			break
		}

		header := fmt.Sprintf("\033[32mJoke %d [%s] | Unique Matches: %d | Total Matches: %d\033[0m\n",
			result.ID, result.Joke.Category, result.UniqueMatches, result.TotalMatches)
		fmt.Fprintf(outputView, "%s\n", header)

		fmt.Fprintf(outputView, "%s\n\n", highlightQuery(displayText(result.Joke), searchQuery))
	}

	_, _ = g.SetCurrentView("input")
	return nil
}

func displayText(joke models.JokeDetails) string {
	if joke.Setup != "" {
		return joke.Setup + "\n" + joke.Delivery
	}
	return joke.Joke
}

func highlightQuery(text, query string) string {
	for _, word := range strings.Fields(query) {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		text = re.ReplaceAllString(text, "\033[31m$0\033[0m")
	}
	return text
}

func (c *CUI) performSearch(query string, ctx context.Context) ([]models.ResultData, map[string]string, int, error) {
	searchResult, err := c.ftsService.SearchJokes(ctx, query, c.maxResults)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to search jokes: %w", err)
	}

	return searchResult.ResultData, searchResult.Timings, searchResult.TotalResultsCount, nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
