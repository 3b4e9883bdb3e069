package editor

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/user/avatarcrop/pkg/ports"
)

// Session is one editing session: Loading until an image is opened, then
// Ready, where pointer, touch, wheel and slider input mutate the transform.
//
// A Session is owned by its scheduler's loop; all methods must be called there.
type Session struct {
	loader ports.ImageLoader
	sched  ports.Scheduler
	logger ports.Logger
	opts   Options

	pipeline *ExportPipeline
	drag     DragController
	zoom     *ZoomController

	state  State
	image  Size
	loadID uint64
	err    error

	onImageEdit func(data []byte)
}

// NewSession creates a session in the Loading state.
func NewSession(renderer ports.Renderer, loader ports.ImageLoader, sched ports.Scheduler, logger ports.Logger, opts Options) *Session {
	opts = opts.withDefaults()
	s := &Session{
		loader:   loader,
		sched:    sched,
		logger:   logger.WithComponent("editor"),
		opts:     opts,
		pipeline: NewExportPipeline(renderer, sched, logger, opts),
		state:    StateLoading,
	}
	s.pipeline.OnExport(func(data []byte) {
		if s.onImageEdit != nil {
			s.onImageEdit(data)
		}
	})
	return s
}

// OnImageEdit sets the consumer of exports. It receives nil when the
// session is torn down by Reupload.
func (s *Session) OnImageEdit(fn func(data []byte)) {
	s.onImageEdit = fn
}

// OnFileSize sets the consumer of formatted export sizes.
func (s *Session) OnFileSize(fn func(label string)) {
	s.pipeline.OnFileSize(fn)
}

// Options returns the effective options.
func (s *Session) Options() Options { return s.opts }

// State returns the session state.
func (s *Session) State() State { return s.state }

// Err returns the last load error, nil after a successful load.
func (s *Session) Err() error { return s.err }

// Transform returns the current transform.
func (s *Session) Transform() Transform { return s.pipeline.Transform() }

// ImageSize returns the source image size, zero while loading.
func (s *Session) ImageSize() Size { return s.image }

// Dragging reports whether a drag gesture is active.
func (s *Session) Dragging() bool { return s.drag.Dragging() }

// Latest returns the last delivered export.
func (s *Session) Latest() []byte { return s.pipeline.Latest() }

// Exports returns how many exports were delivered in this session.
func (s *Session) Exports() int { return s.pipeline.Exports() }

// FileSize returns the last file-size label, empty until the first probe.
func (s *Session) FileSize() string { return s.pipeline.FileSize() }

// ScaleRange returns the minimum and maximum scale, zero while loading.
func (s *Session) ScaleRange() (min, max float64) {
	if s.zoom == nil {
		return 0, 0
	}
	return s.zoom.MinScale(), s.zoom.MaxScale()
}

// Percent returns the current slider position in [0, 500].
func (s *Session) Percent() float64 {
	if s.zoom == nil {
		return 0
	}
	return s.zoom.Percent(s.Transform().Scale)
}

// ScaleLabel returns the slider label, e.g. "Scale: 120%".
func (s *Session) ScaleLabel() string {
	return fmt.Sprintf("Scale: %d%%", int(math.Round(s.Percent())))
}

// Caption describes the source and the available gestures.
func (s *Session) Caption(touch bool) string {
	hint := "Scroll to zoom"
	if touch {
		hint = "Pinch to zoom"
	}
	return fmt.Sprintf("%dx%dpx • Drag to move • %s", int(s.image.Width), int(s.image.Height), hint)
}

// DownloadCaption describes the download, e.g. "1200x1200 • JPG • 84.2 KB".
func (s *Session) DownloadCaption() string {
	caption := fmt.Sprintf("%dx%d • %s", s.opts.CanvasWidth, s.opts.CanvasHeight, s.opts.Format.Label())
	if size := s.FileSize(); size != "" {
		caption += " • " + size
	}
	return caption
}

// Load decodes source off the loop and opens it. done, if set, runs on the
// loop with the outcome. A later Load or Reupload supersedes this one.
func (s *Session) Load(ctx context.Context, source string, done func(error)) {
	s.teardown()
	s.loadID++
	id := s.loadID
	s.logger.Debug("Loading %s", source)

	var img image.Image
	var err error
	s.sched.Async(func() {
		img, err = s.loader.Load(ctx, source)
	}, func() {
		if id != s.loadID {
			s.logger.Debug("Dropped superseded load of %s", source)
			return
		}
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrDecode, err)
			s.err = err
			s.logger.Warn("Failed to load image: %s", err)
		} else {
			err = s.open(img)
		}
		if done != nil {
			done(err)
		}
	})
}

// Open starts editing an already decoded image. Loads still in flight
// are superseded.
func (s *Session) Open(img image.Image) error {
	s.loadID++
	return s.open(img)
}

func (s *Session) open(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		s.err = fmt.Errorf("%w: empty image", ErrDecode)
		return s.err
	}
	s.teardown()

	b := img.Bounds()
	s.image = SizeOf(b.Dx(), b.Dy())
	canvas := s.opts.Canvas()
	s.zoom = NewZoomController(s.image, canvas, s.opts.MaxScaleMultiplier, s.opts.ZoomInStep, s.opts.ZoomOutStep)
	if s.opts.MaxScaleMultiplier < 1 {
		s.logger.Warn("Max scale multiplier %.2f is below 1, zoom range collapsed to the fit scale", s.opts.MaxScaleMultiplier)
	}

	fit := FitTransform(s.image, canvas)
	s.pipeline.SetSource(img, fit)
	s.state = StateReady
	s.err = nil
	s.logger.Debug("Opened %dx%d image, %s", b.Dx(), b.Dy(), fit)

	s.pipeline.Request(false)
	return nil
}

func (s *Session) ready() bool {
	return s.state == StateReady
}

// apply draws t and schedules an export.
func (s *Session) apply(t Transform, debounce bool) {
	if !s.pipeline.Apply(t) {
		return
	}
	s.pipeline.Request(debounce)
}

// PointerDown starts a mouse drag.
func (s *Session) PointerDown(x, y float64) {
	s.dragStart(MouseInput{X: x, Y: y})
}

// PointerMove moves an active mouse drag.
func (s *Session) PointerMove(x, y float64) {
	s.dragMove(MouseInput{X: x, Y: y})
}

// PointerUp ends a mouse drag.
func (s *Session) PointerUp() {
	s.dragEnd()
}

// PointerLeave ends a mouse drag when the pointer leaves the canvas.
func (s *Session) PointerLeave() {
	s.dragEnd()
}

// TouchStart starts a drag from the first touch.
func (s *Session) TouchStart(touches TouchInput) {
	s.dragStart(touches)
}

// TouchMove moves a drag with the first touch.
func (s *Session) TouchMove(touches TouchInput) {
	s.dragMove(touches)
}

// TouchEnd ends a touch drag.
func (s *Session) TouchEnd() {
	s.dragEnd()
}

func (s *Session) dragStart(in PointerInput) {
	if !s.ready() {
		return
	}
	s.drag.Start(in, s.Transform().Offset)
}

func (s *Session) dragMove(in PointerInput) {
	if !s.ready() {
		return
	}
	t := s.Transform()
	offset, ok := s.drag.Move(in, t.Scale, s.image, s.opts.Canvas())
	if !ok {
		return
	}
	s.apply(Transform{Scale: t.Scale, Offset: offset}, true)
}

// dragEnd exports immediately so the final drag frame is not lost to a
// pending debounced export.
func (s *Session) dragEnd() {
	if !s.drag.End() || !s.ready() {
		return
	}
	s.pipeline.Request(false)
}

// Wheel zooms one step per wheel event; deltaY > 0 zooms out.
// Exports are coalesced to one per frame.
func (s *Session) Wheel(deltaY float64) {
	if !s.ready() {
		return
	}
	s.apply(s.zoom.Zoom(s.Transform(), s.zoom.WheelDelta(deltaY)), true)
}

// Pinch zooms by the ratio between the current and previous finger distance.
func (s *Session) Pinch(ratio float64) {
	if !s.ready() {
		return
	}
	s.apply(s.zoom.Zoom(s.Transform(), ratio), true)
}

// SetPercent sets the absolute zoom from the slider and exports immediately.
func (s *Session) SetPercent(percent float64) {
	if !s.ready() {
		return
	}
	s.apply(s.zoom.ZoomToPercent(s.Transform(), percent), false)
}

// Reset restores the initial fit transform.
func (s *Session) Reset() {
	if !s.ready() {
		return
	}
	s.apply(FitTransform(s.image, s.opts.Canvas()), false)
}

// Reupload tears the session down to Loading and notifies the consumer
// with a nil export. Pending loads are abandoned.
func (s *Session) Reupload() {
	s.teardown()
	s.loadID++
	if s.onImageEdit != nil {
		s.onImageEdit(nil)
	}
}

// Download encodes the current canvas at the target size.
func (s *Session) Download() (Artifact, error) {
	if !s.ready() {
		return Artifact{}, ErrNotReady
	}
	s.pipeline.Flush()
	data, err := s.pipeline.Encode(s.opts.CanvasWidth, s.opts.CanvasHeight)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Name:   s.opts.FileName,
		Format: s.opts.Format,
		Data:   data,
		Width:  s.opts.CanvasWidth,
		Height: s.opts.CanvasHeight,
	}, nil
}

// Close abandons the session.
func (s *Session) Close() {
	s.teardown()
	s.loadID++
}

func (s *Session) teardown() {
	s.pipeline.Close()
	s.drag.End()
	s.zoom = nil
	s.state = StateLoading
	s.image = Size{}
}
