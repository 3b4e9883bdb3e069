// Package composite implements the preview composition stage.
package composite

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sort"
	"sync"

	"github.com/user/avatarcrop/pkg/pipeline"
	"github.com/user/avatarcrop/pkg/ports"
	"github.com/user/avatarcrop/pkg/preview"
)

// Stage renders one preview card per platform and composes them into a sheet.
type Stage struct {
	renderer   ports.Renderer
	cards      *preview.CardRenderer
	sink       ports.DebugSink
	logger     ports.Logger
	numWorkers int
}

// NewStage creates a new composite stage.
func NewStage(renderer ports.Renderer, sink ports.DebugSink, logger ports.Logger, numWorkers int) *Stage {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Stage{
		renderer:   renderer,
		cards:      preview.NewCardRenderer(renderer),
		sink:       sink,
		logger:     logger.WithComponent("composite"),
		numWorkers: numWorkers,
	}
}

// Execute renders all cards and the sheet.
func (s *Stage) Execute(ctx context.Context, input pipeline.CompositeInput) (pipeline.CompositeResult, error) {
	if len(input.Platforms) == 0 {
		return pipeline.CompositeResult{Cards: []pipeline.Card{}}, nil
	}
	if input.Avatar == nil {
		return pipeline.CompositeResult{}, fmt.Errorf("no avatar to preview")
	}
	if len(input.Layout.Cells) < len(input.Platforms) {
		return pipeline.CompositeResult{}, fmt.Errorf("layout has %d cells for %d cards", len(input.Layout.Cells), len(input.Platforms))
	}

	s.logger.Debug("Rendering %d cards with %d workers", len(input.Platforms), s.numWorkers)

	cards, err := s.renderParallel(ctx, input)
	if err != nil {
		return pipeline.CompositeResult{}, err
	}

	sheet := s.composeSheet(input, cards)

	s.logger.Debug("Composition completed")
	return pipeline.CompositeResult{Cards: cards, Sheet: sheet}, nil
}

// indexedCard holds a card with its original index for sorting.
type indexedCard struct {
	index int
	card  pipeline.Card
}

// renderParallel renders cards using a worker pool.
func (s *Stage) renderParallel(ctx context.Context, input pipeline.CompositeInput) ([]pipeline.Card, error) {
	numCards := len(input.Platforms)
	jobs := make(chan int, numCards)
	results := make(chan indexedCard, numCards)

	var wg sync.WaitGroup
	for w := 0; w < s.numWorkers; w++ {
		wg.Add(1)
		go s.worker(ctx, &wg, input, jobs, results)
	}

	for i := 0; i < numCards; i++ {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	cards := make([]indexedCard, 0, numCards)
	for result := range results {
		cards = append(cards, result)

		if s.sink.Enabled() {
			if err := s.sink.SavePreviewCard(result.card.Platform, result.card.Image); err != nil {
				s.logger.Warn("Failed to save preview card %s: %v", result.card.Platform, err)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(cards) != numCards {
		return nil, fmt.Errorf("rendered %d of %d cards", len(cards), numCards)
	}

	// Sort by index to keep the platform order
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].index < cards[j].index
	})

	out := make([]pipeline.Card, len(cards))
	for i, c := range cards {
		out[i] = c.card
	}
	return out, nil
}

// worker renders cards from the jobs channel.
func (s *Stage) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	input pipeline.CompositeInput,
	jobs <-chan int,
	results chan<- indexedCard,
) {
	defer wg.Done()

	for idx := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		p := input.Platforms[idx]
		results <- indexedCard{
			index: idx,
			card: pipeline.Card{
				Platform: p.Slug,
				FileName: p.FileName(),
				Image:    s.cards.Render(p, input.Theme, input.Avatar),
			},
		}
	}
}

// composeSheet draws the banner and the cards into their layout cells.
func (s *Stage) composeSheet(input pipeline.CompositeInput, cards []pipeline.Card) image.Image {
	layout := input.Layout
	canvas := s.renderer.CreateCanvas(layout.Sheet.Width, layout.Sheet.Height, preview.SheetBackground(input.Theme))

	if input.Banner != nil && input.Banner.Image != nil && layout.BannerArea.Height > 0 {
		canvas.DrawImage(input.Banner.Image, layout.BannerArea.X, layout.BannerArea.Y)
	}

	for i, card := range cards {
		cell := layout.Cells[i]
		canvas.DrawImage(card.Image, cell.X, cell.Y)
	}

	return canvas.ToImage()
}
