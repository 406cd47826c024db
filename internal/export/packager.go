// Package export packages composited exercise steps into a single ZIP archive.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/png"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/motoruniversal-backend/internal/overlay"
	"github.com/yungbote/motoruniversal-backend/internal/platform/imageload"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

const DefaultFetchConcurrency = 4

// Every entry carries this timestamp so identical input yields identical bytes.
var entryModified = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

var tracer = otel.Tracer("github.com/yungbote/motoruniversal-backend/internal/export")

type SessionMeta struct {
	SessionNumber int    `json:"session_number" yaml:"session_number"`
	SessionTitle  string `json:"session_title" yaml:"session_title"`
}

// Composer flattens actions onto a background. *overlay.Compositor implements it.
type Composer interface {
	Compose(bg image.Image, actions []overlay.Action) *image.RGBA
}

type Result struct {
	ArchiveName string
	Archive     []byte
	// Included holds the exported step numbers in archive order.
	Included []int
	Failures []*ImageLoadError
}

// SkippedSteps lists step numbers whose image failed to load.
func (r *Result) SkippedSteps() []int {
	out := make([]int, 0, len(r.Failures))
	for _, f := range r.Failures {
		out = append(out, f.StepNumber)
	}
	return out
}

type Options struct {
	// FetchConcurrency bounds how many images are loaded or held ahead of
	// the compositor.
	FetchConcurrency int
}

type Packager struct {
	log         *logger.Logger
	loader      imageload.Loader
	composer    Composer
	concurrency int
	encoder     png.Encoder
}

func NewPackager(log *logger.Logger, loader imageload.Loader, composer Composer, opts Options) *Packager {
	if log == nil {
		log = logger.Nop()
	}
	n := opts.FetchConcurrency
	if n <= 0 {
		n = DefaultFetchConcurrency
	}
	return &Packager{
		log:         log.With("service", "ExportPackager"),
		loader:      loader,
		composer:    composer,
		concurrency: n,
		encoder:     png.Encoder{CompressionLevel: png.DefaultCompression},
	}
}

type loaded struct {
	img image.Image
	err error
}

// Package composites every step with an image, in ascending step order, into
// one archive. Image load failures are collected and skipped; encoding
// failures abort with no archive.
func (p *Packager) Package(ctx context.Context, meta SessionMeta, steps []overlay.Step) (res *Result, err error) {
	ctx, span := tracer.Start(ctx, "export.package")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	name := ArchiveName(meta.SessionNumber, meta.SessionTitle)
	queue := p.qualifying(steps)
	span.SetAttributes(
		attribute.Int("export.session_number", meta.SessionNumber),
		attribute.Int("export.steps_total", len(steps)),
		attribute.Int("export.steps_with_image", len(queue)),
	)
	if len(queue) == 0 {
		return nil, &NoExportableContentError{}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	slots := p.prefetch(gctx, g, queue)
	defer func() {
		cancel()
		_ = g.Wait()
	}()

	var (
		buf      bytes.Buffer
		zw       = zip.NewWriter(&buf)
		included = make([]int, 0, len(queue))
		failures []*ImageLoadError
	)
	for i, st := range queue {
		var got loaded
		select {
		case got = <-slots.results[i]:
		case <-gctx.Done():
			return nil, context.Cause(gctx)
		}
		slots.release()

		if got.err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			le := &ImageLoadError{StepNumber: st.StepNumber, URL: st.ImageURL, Err: got.err}
			failures = append(failures, le)
			p.log.Warn("step image skipped", "step_number", st.StepNumber, "url", st.ImageURL, "error", got.err)
			continue
		}

		entry := EntryName(st.StepNumber)
		if err := p.writeStep(ctx, zw, entry, st, got.img); err != nil {
			return nil, err
		}
		included = append(included, st.StepNumber)
	}

	if len(included) == 0 {
		return nil, &NoExportableContentError{Failures: failures}
	}
	if err := zw.Close(); err != nil {
		return nil, &ArchiveEncodingError{Err: err}
	}

	span.SetAttributes(attribute.Int("export.images_included", len(included)))
	p.log.Info("export packaged",
		"archive", name,
		"images_included", len(included),
		"steps_skipped", len(failures),
		"bytes", buf.Len(),
	)
	return &Result{
		ArchiveName: name,
		Archive:     buf.Bytes(),
		Included:    included,
		Failures:    failures,
	}, nil
}

// qualifying drops steps without an image, orders by step number and keeps
// the first of any duplicated step number.
func (p *Packager) qualifying(steps []overlay.Step) []overlay.Step {
	out := make([]overlay.Step, 0, len(steps))
	for _, st := range steps {
		if st.HasImage() {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StepNumber < out[j].StepNumber })

	dedup := out[:0]
	for i, st := range out {
		if i > 0 && st.StepNumber == out[i-1].StepNumber {
			p.log.Warn("duplicate step number ignored", "step_number", st.StepNumber, "url", st.ImageURL)
			continue
		}
		dedup = append(dedup, st)
	}
	return dedup
}

type prefetchSlots struct {
	results []chan loaded
	window  chan struct{}
}

func (s *prefetchSlots) release() { <-s.window }

// prefetch starts loads in queue order. A window token is taken before each
// load and returned only when the consumer receives the image, so at most
// p.concurrency decoded images exist ahead of the compositor.
func (p *Packager) prefetch(ctx context.Context, g *errgroup.Group, queue []overlay.Step) *prefetchSlots {
	slots := &prefetchSlots{
		results: make([]chan loaded, len(queue)),
		window:  make(chan struct{}, p.concurrency),
	}
	for i := range slots.results {
		slots.results[i] = make(chan loaded, 1)
	}
	g.Go(func() error {
		for i, st := range queue {
			select {
			case slots.window <- struct{}{}:
			case <-ctx.Done():
				return nil
			}
			i, ref := i, st.ImageURL
			g.Go(func() error {
				img, err := p.loader.Load(ctx, ref)
				slots.results[i] <- loaded{img: img, err: err}
				return nil
			})
		}
		return nil
	})
	return slots
}

func (p *Packager) writeStep(ctx context.Context, zw *zip.Writer, entry string, st overlay.Step, bg image.Image) error {
	_, span := tracer.Start(ctx, "export.step")
	defer span.End()
	span.SetAttributes(attribute.Int("export.step_number", st.StepNumber), attribute.Int("export.actions", len(st.Actions)))

	out := p.composer.Compose(bg, st.Actions)

	var raw bytes.Buffer
	if err := p.encoder.Encode(&raw, out); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return &ArchiveEncodingError{Entry: entry, Err: err}
	}
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     entry,
		Method:   zip.Store,
		Modified: entryModified,
	})
	if err != nil {
		return &ArchiveEncodingError{Entry: entry, Err: err}
	}
	if _, err := w.Write(raw.Bytes()); err != nil {
		return &ArchiveEncodingError{Entry: entry, Err: err}
	}
	return nil
}
