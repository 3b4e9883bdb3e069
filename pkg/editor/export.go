package editor

import (
	"fmt"
	"image"

	"github.com/user/avatarcrop/pkg/ports"
)

// ExportPipeline owns the authoritative transform and source image, draws
// them onto the canvas and exports the canvas asynchronously.
//
// All methods must be called on the scheduler's loop.
type ExportPipeline struct {
	renderer ports.Renderer
	sched    ports.Scheduler
	logger   ports.Logger
	opts     Options

	canvas    ports.Canvas
	source    image.Image
	transform Transform

	// Export coalescing and staleness guard.
	opID        uint64
	cancelFrame func()
	latest      []byte
	exports     int

	// File-size probe: at most one in flight, at most one pending.
	probing      bool
	probePending bool
	cancelProbe  func()
	probeGen     uint64
	fileSize     string

	closed bool

	onExport   func(data []byte)
	onFileSize func(label string)
}

// NewExportPipeline creates a pipeline drawing onto a canvas of the configured size.
func NewExportPipeline(renderer ports.Renderer, sched ports.Scheduler, logger ports.Logger, opts Options) *ExportPipeline {
	opts = opts.withDefaults()
	return &ExportPipeline{
		renderer: renderer,
		sched:    sched,
		logger:   logger.WithComponent("export"),
		opts:     opts,
		canvas:   renderer.CreateCanvas(opts.CanvasWidth, opts.CanvasHeight, opts.Background),
	}
}

// OnExport sets the consumer of delivered exports.
func (p *ExportPipeline) OnExport(fn func(data []byte)) {
	p.onExport = fn
}

// OnFileSize sets the consumer of formatted file-size reports.
func (p *ExportPipeline) OnFileSize(fn func(label string)) {
	p.onFileSize = fn
}

// SetSource replaces the source image and transform and reopens the pipeline.
func (p *ExportPipeline) SetSource(img image.Image, t Transform) {
	p.source = img
	p.transform = t
	p.closed = false
	p.draw()
}

// Transform returns the current transform.
func (p *ExportPipeline) Transform() Transform {
	return p.transform
}

// Apply stores t and redraws. An invalid transform is rejected, the last
// valid one is kept and false is returned.
func (p *ExportPipeline) Apply(t Transform) bool {
	if !t.Valid() {
		p.logger.Warn("Rejected invalid transform %s, keeping %s", t, p.transform)
		return false
	}
	p.transform = t
	p.draw()
	return true
}

func (p *ExportPipeline) draw() {
	p.canvas.Clear(p.opts.Background)
	if p.source == nil {
		return
	}
	t := p.transform
	p.canvas.DrawImageTransformed(p.source, t.Offset.X, t.Offset.Y, t.Scale)
}

// Request schedules an export. With debounce set the export runs on the next
// frame, replacing any export already scheduled; otherwise it runs now.
func (p *ExportPipeline) Request(debounce bool) {
	if p.closed {
		return
	}
	p.cancelScheduled()
	if debounce {
		p.cancelFrame = p.sched.AfterFrame(func() {
			p.cancelFrame = nil
			p.export()
		})
		return
	}
	p.export()
}

// Flush runs a scheduled export immediately, if any.
func (p *ExportPipeline) Flush() {
	if p.cancelFrame == nil {
		return
	}
	p.cancelScheduled()
	p.export()
}

func (p *ExportPipeline) cancelScheduled() {
	if p.cancelFrame != nil {
		p.cancelFrame()
		p.cancelFrame = nil
	}
}

// export snapshots the canvas and encodes it off the loop. Only the result
// of the most recent export is delivered.
func (p *ExportPipeline) export() {
	if p.closed || p.source == nil {
		return
	}
	p.opID++
	id := p.opID
	snap := p.canvas.Snapshot()

	var data []byte
	var err error
	p.sched.Async(func() {
		data, err = p.renderer.EncodeImage(snap, p.opts.Format, p.opts.Quality)
	}, func() {
		if err != nil || len(data) == 0 {
			p.logger.Warn("Export %d skipped: %v", id, encodeError(err))
			return
		}
		if id != p.opID || p.closed {
			p.logger.Debug("Discarded stale export %d (current %d)", id, p.opID)
			return
		}
		p.latest = data
		p.exports++
		if p.onExport != nil {
			p.onExport(data)
		}
		p.probeFileSize()
	})
}

func encodeError(err error) error {
	if err == nil {
		return fmt.Errorf("%w: empty result", ErrEncode)
	}
	return fmt.Errorf("%w: %v", ErrEncode, err)
}

// Latest returns the most recently delivered export, nil if none.
func (p *ExportPipeline) Latest() []byte {
	return p.latest
}

// Exports returns how many exports were delivered.
func (p *ExportPipeline) Exports() int {
	return p.exports
}

// FileSize returns the last reported file-size label.
func (p *ExportPipeline) FileSize() string {
	return p.fileSize
}

func (p *ExportPipeline) probeFileSize() {
	if p.probing {
		p.probePending = true
		return
	}
	p.probing = true
	p.runProbe()
}

func (p *ExportPipeline) runProbe() {
	gen := p.probeGen
	snap := p.canvas.Snapshot()
	var size int
	var err error
	p.sched.Async(func() {
		var data []byte
		data, err = p.renderer.EncodeImage(snap, p.opts.Format, p.opts.Quality)
		size = len(data)
	}, func() {
		if gen != p.probeGen {
			return
		}
		if err == nil && size > 0 {
			p.fileSize = FormatFileSize(int64(size))
			if p.onFileSize != nil {
				p.onFileSize(p.fileSize)
			}
		}
		p.cancelProbe = p.sched.AfterFrame(func() {
			p.cancelProbe = nil
			p.probing = false
			if p.probePending {
				p.probePending = false
				p.probing = true
				p.runProbe()
			}
		})
	})
}

// Encode synchronously encodes the current canvas at width x height.
func (p *ExportPipeline) Encode(width, height int) ([]byte, error) {
	var img image.Image = p.canvas.Snapshot()
	if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
		img = p.renderer.ResizeImage(img, width, height)
	}
	data, err := p.renderer.EncodeImage(img, p.opts.Format, p.opts.Quality)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return data, nil
}

// Close cancels scheduled work and drops the source. Results of encodes
// still in flight are discarded when they arrive.
func (p *ExportPipeline) Close() {
	p.cancelScheduled()
	if p.cancelProbe != nil {
		p.cancelProbe()
		p.cancelProbe = nil
	}
	p.probing = false
	p.probePending = false
	p.probeGen++
	p.opID++
	p.closed = true
	p.source = nil
	p.transform = Transform{}
	p.latest = nil
	p.fileSize = ""
	p.canvas.Clear(p.opts.Background)
}
