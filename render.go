package sepcolor

import (
	"errors"
	"image"

	"github.com/gogpu/sepcolor/internal/rowsched"
)

// Render composites the request's solid color into Dst through the
// analytic mask, reading from Src. It is synchronous: all internal
// parallelism fans back in before it returns.
//
// Backends are tried in fixed order, each at most once per call: the
// registered GPU accelerator, the host iteration service carried by the
// request, and finally the built-in multithreaded row loop. Backend
// failures fall through silently (logged at warn level); the only errors
// surfaced are invalid surfaces and host-reported cancellation.
//
// On cancellation, rows already written remain in Dst; partial output
// is observable and intentional.
func Render(req *Request) error {
	if err := req.prepare(); err != nil {
		return err
	}
	k := newKernel(req)

	if a := Accelerator(); a != nil && a.CanAccelerate(req.Dst.Format) {
		err := a.Render(req)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrUnsupported) {
			Logger().Warn("sepcolor: accelerator failed, falling back to CPU",
				"accelerator", a.Name(), "err", err)
		}
	}

	if req.Iterator != nil {
		return renderIterate(req, &k)
	}
	return renderManual(req, &k)
}

// renderManual is the terminal fallback backend: a hand-scheduled row
// loop fanned out over the available cores.
func renderManual(req *Request, k *kernel) error {
	h := req.Dst.Height
	ranges := rowsched.Partition(h, rowsched.Workers(h))
	switch req.Dst.Format {
	case FormatInt16:
		return rowsched.Run(ranges, func(r rowsched.Range) error {
			return renderRows(ops16{}, req, k, req.Src.Pix16, req.Dst.Pix16, r)
		})
	case FormatFloat32:
		return rowsched.Run(ranges, func(r rowsched.Range) error {
			return renderRows(opsF{}, req, k, req.Src.PixF, req.Dst.PixF, r)
		})
	default:
		return rowsched.Run(ranges, func(r rowsched.Range) error {
			return renderRows(ops8{}, req, k, req.Src.Pix8, req.Dst.Pix8, r)
		})
	}
}

// renderRows renders a contiguous row range. Each row is classified
// against the transition band first: rows wholly outside copy through
// in bulk, rows wholly inside take the solid color in bulk, and only
// mixed rows pay for per-pixel coverage.
func renderRows[T channel, O pixelOps[T]](o O, req *Request, k *kernel, src, dst []T, r rowsched.Range) error {
	width := req.Dst.Width
	sStride, dStride := req.Src.Stride, req.Dst.Stride
	cr, cg, cb := o.Convert(req.Color)

	for y := r.Start; y < r.End; y++ {
		if err := req.checkAbort(); err != nil {
			return err
		}
		srow := src[y*sStride : y*sStride+width*pixelChannels]
		drow := dst[y*dStride : y*dStride+width*pixelChannels]
		switch k.classifyRow(y, width) {
		case rowOutside:
			if !req.inPlace {
				copy(drow, srow)
			}
		case rowInside:
			fillRowSolid(o, srow, drow, 0, width, cr, cg, cb)
		default:
			blendRow(o, k, srow, drow, y, width, cr, cg, cb, req.inPlace)
		}
	}
	return nil
}

// renderIterate delegates per-pixel evaluation to the host iteration
// service. In circle mode the region of interest shrinks to the disk's
// bounding box; the whole frame is bulk-copied first so pixels outside
// the box keep their original values. The service's error (typically a
// host abort) is propagated verbatim.
func renderIterate(req *Request, k *kernel) error {
	w, h := req.Dst.Width, req.Dst.Height
	region := image.Rect(0, 0, w, h)
	if req.Mode != ModeLine {
		if !req.inPlace {
			copyAll(req.Dst, req.Src)
		}
		x0, y0, x1, y1 := k.bounds(w, h)
		if x0 >= x1 || y0 >= y1 {
			return nil
		}
		region = image.Rect(x0, y0, x1, y1)
	}

	var fn PixelFunc
	switch req.Dst.Format {
	case FormatInt16:
		fn = pixelFunc(ops16{}, req, k, req.Src.Pix16, req.Dst.Pix16)
	case FormatFloat32:
		fn = pixelFunc(opsF{}, req, k, req.Src.PixF, req.Dst.PixF)
	default:
		fn = pixelFunc(ops8{}, req, k, req.Src.Pix8, req.Dst.Pix8)
	}
	return req.Iterator.Iterate(region, fn)
}

// pixelFunc builds the per-pixel callback handed to the host iteration
// service.
func pixelFunc[T channel, O pixelOps[T]](o O, req *Request, k *kernel, src, dst []T) PixelFunc {
	sStride, dStride := req.Src.Stride, req.Dst.Stride
	cr, cg, cb := o.Convert(req.Color)
	inPlace := req.inPlace
	return func(x, y int) error {
		so := y*sStride + x*pixelChannels
		do := y*dStride + x*pixelChannels
		blendPixel(o, src, dst, so, do, k.coverage(x, y), cr, cg, cb, inPlace)
		return nil
	}
}
