package editor

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/user/avatarcrop/pkg/mocks"
	"github.com/user/avatarcrop/pkg/ports"
)

func newTestPipeline(renderer *mocks.Renderer, sched *mocks.Scheduler, logger *mocks.Logger) *ExportPipeline {
	p := NewExportPipeline(renderer, sched, logger, DefaultOptions())
	p.SetSource(image.NewRGBA(image.Rect(0, 0, 800, 600)), FitTransform(Size{Width: 800, Height: 600}, Size{Width: 1200, Height: 1200}))
	return p
}

func TestExportPipeline_DrawsTransform(t *testing.T) {
	renderer := &mocks.Renderer{}
	p := newTestPipeline(renderer, mocks.NewScheduler(true), mocks.NewLogger())

	canvas := renderer.Canvases()[0]
	draw, ok := canvas.LastDraw()
	if !ok {
		t.Fatal("expected the source to be drawn")
	}
	if draw != (mocks.DrawCall{TX: -200, TY: 0, Scale: 2}) {
		t.Errorf("unexpected draw %+v", draw)
	}

	p.Apply(Transform{Scale: 3, Offset: Point{X: -10, Y: -20}})
	draw, _ = canvas.LastDraw()
	if draw != (mocks.DrawCall{TX: -10, TY: -20, Scale: 3}) {
		t.Errorf("unexpected draw %+v", draw)
	}
	if canvas.Clears < 2 {
		t.Errorf("expected the canvas to be cleared before each draw, got %d clears", canvas.Clears)
	}
}

func TestExportPipeline_RejectsInvalidTransform(t *testing.T) {
	logger := mocks.NewLogger()
	p := newTestPipeline(&mocks.Renderer{}, mocks.NewScheduler(true), logger)
	before := p.Transform()

	for _, tr := range []Transform{
		{Scale: math.NaN()},
		{Scale: 2, Offset: Point{X: math.Inf(-1)}},
		{Scale: 0},
	} {
		if p.Apply(tr) {
			t.Errorf("expected %s to be rejected", tr)
		}
	}
	if p.Transform() != before {
		t.Errorf("expected transform to stay %s, got %s", before, p.Transform())
	}
	if !logger.Contains(ports.LevelWarn, "Rejected invalid transform") {
		t.Error("expected a warning for the rejected transform")
	}
}

func TestExportPipeline_StalenessGuard(t *testing.T) {
	label := ""
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return []byte(label), nil
		},
	}
	sched := mocks.NewScheduler(false)
	logger := mocks.NewLogger()
	p := newTestPipeline(renderer, sched, logger)

	var delivered []string
	p.OnExport(func(data []byte) { delivered = append(delivered, string(data)) })

	p.Request(false) // A
	p.Request(false) // B

	label = "B"
	sched.Complete(1)
	label = "A"
	sched.Complete(0)

	if len(delivered) != 1 || delivered[0] != "B" {
		t.Fatalf("expected only B to be delivered, got %v", delivered)
	}
	if string(p.Latest()) != "B" {
		t.Errorf("expected latest B, got %q", p.Latest())
	}
	if !logger.Contains(ports.LevelDebug, "Discarded stale export 1") {
		t.Error("expected the stale export to be logged")
	}
}

func TestExportPipeline_DebounceCoalesces(t *testing.T) {
	renderer := &mocks.Renderer{}
	sched := mocks.NewScheduler(true)
	p := newTestPipeline(renderer, sched, mocks.NewLogger())

	for i := 0; i < 10; i++ {
		p.Request(true)
	}
	if p.Exports() != 0 {
		t.Fatalf("expected no export before the frame, got %d", p.Exports())
	}
	if sched.PendingFrames() != 1 {
		t.Errorf("expected one scheduled frame, got %d", sched.PendingFrames())
	}

	sched.FlushFrames()
	if p.Exports() != 1 {
		t.Errorf("expected one export after the frame, got %d", p.Exports())
	}
}

func TestExportPipeline_ImmediateCancelsScheduled(t *testing.T) {
	sched := mocks.NewScheduler(true)
	p := newTestPipeline(&mocks.Renderer{}, sched, mocks.NewLogger())

	p.Request(true)
	p.Request(false)
	if p.Exports() != 1 {
		t.Fatalf("expected an immediate export, got %d", p.Exports())
	}
	sched.FlushFrames()
	if p.Exports() != 1 {
		t.Errorf("expected the scheduled export to be cancelled, got %d exports", p.Exports())
	}
}

func TestExportPipeline_FlushRunsScheduled(t *testing.T) {
	sched := mocks.NewScheduler(true)
	p := newTestPipeline(&mocks.Renderer{}, sched, mocks.NewLogger())

	p.Flush()
	if p.Exports() != 0 {
		t.Errorf("expected Flush without a scheduled export to do nothing, got %d", p.Exports())
	}

	p.Request(true)
	p.Flush()
	if p.Exports() != 1 {
		t.Errorf("expected Flush to export, got %d", p.Exports())
	}
}

func TestExportPipeline_EncodeFailureKeepsLastGood(t *testing.T) {
	fail := false
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			if fail {
				return nil, errors.New("encoder unavailable")
			}
			return []byte("good"), nil
		},
	}
	logger := mocks.NewLogger()
	p := newTestPipeline(renderer, mocks.NewScheduler(true), logger)

	p.Request(false)
	fail = true
	p.Request(false)

	if string(p.Latest()) != "good" {
		t.Errorf("expected last good export, got %q", p.Latest())
	}
	if p.Exports() != 1 {
		t.Errorf("expected 1 delivered export, got %d", p.Exports())
	}
	if !logger.Contains(ports.LevelWarn, "skipped") {
		t.Error("expected a warning for the failed export")
	}
}

func TestExportPipeline_ProbeCoalesces(t *testing.T) {
	renderer := &mocks.Renderer{}
	sched := mocks.NewScheduler(false)
	p := newTestPipeline(renderer, sched, mocks.NewLogger())

	var sizes []string
	p.OnFileSize(func(label string) { sizes = append(sizes, label) })

	p.Request(false)
	sched.Complete(0) // export, starts probe job 1
	p.Request(false)
	sched.Complete(2) // export, probe pending
	p.Request(false)
	sched.Complete(3) // export, still one pending probe
	sched.Complete(1) // first probe reports

	if len(sizes) != 1 {
		t.Fatalf("expected 1 size report, got %d", len(sizes))
	}
	if sched.PendingJobs() != 0 {
		t.Fatalf("expected no probe to start before the frame, got %d jobs", sched.PendingJobs())
	}

	sched.Settle()

	if p.Exports() != 3 {
		t.Errorf("expected 3 exports, got %d", p.Exports())
	}
	if len(sizes) != 2 {
		t.Errorf("expected pending probes to coalesce into 1 rerun, got %d reports", len(sizes))
	}
	if renderer.EncodeCalls() != 5 {
		t.Errorf("expected 5 encodes (3 exports, 2 probes), got %d", renderer.EncodeCalls())
	}
	if p.FileSize() != "4 B" {
		t.Errorf("expected size label %q, got %q", "4 B", p.FileSize())
	}
}

func TestExportPipeline_CloseDiscardsInFlight(t *testing.T) {
	sched := mocks.NewScheduler(false)
	p := newTestPipeline(&mocks.Renderer{}, sched, mocks.NewLogger())

	delivered := 0
	p.OnExport(func([]byte) { delivered++ })

	p.Request(false)
	p.Request(true)
	p.Close()
	sched.Settle()

	if delivered != 0 {
		t.Errorf("expected no delivery after Close, got %d", delivered)
	}
	if p.Transform() != (Transform{}) {
		t.Errorf("expected transform to be cleared, got %s", p.Transform())
	}

	p.Request(false)
	if sched.PendingJobs() != 0 {
		t.Error("expected Request on a closed pipeline to do nothing")
	}
}

func TestExportPipeline_EncodeResizes(t *testing.T) {
	var resized [2]int
	renderer := &mocks.Renderer{
		ResizeImageFunc: func(img image.Image, width, height int) image.Image {
			resized = [2]int{width, height}
			return image.NewRGBA(image.Rect(0, 0, width, height))
		},
	}
	p := newTestPipeline(renderer, mocks.NewScheduler(true), mocks.NewLogger())

	if _, err := p.Encode(1200, 1200); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resized != ([2]int{}) {
		t.Errorf("expected no resize at canvas size, got %v", resized)
	}

	if _, err := p.Encode(400, 400); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resized != ([2]int{400, 400}) {
		t.Errorf("expected resize to 400x400, got %v", resized)
	}
}
