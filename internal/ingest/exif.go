package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"gallery-pipeline/internal/logging"
)

// exifTimeLayout is the timestamp layout EXIF uses for DateTimeOriginal.
const exifTimeLayout = "2006:01:02 15:04:05"

// ReadMeta extracts capture metadata from the EXIF block of r. JPEG and
// TIFF masters usually carry one; PNG and WebP masters usually do not.
// Returns nil when no usable EXIF is present. Partial EXIF is fine;
// every field is independent.
func ReadMeta(r io.Reader, path string) *Meta {
	x, err := exif.Decode(r)
	if err != nil {
		logging.Debug("no EXIF in %s: %v", path, err)
		return nil
	}

	meta := &Meta{
		Camera:       cameraName(x),
		Lens:         stringTag(x, exif.LensModel),
		FocalLength:  focalLength(x),
		Aperture:     aperture(x),
		ShutterSpeed: shutterSpeed(x),
		ISO:          isoValue(x),
		Description:  stringTag(x, exif.ImageDescription),
	}
	if t, ok := captureTime(x); ok {
		meta.Captured = t
	}

	if *meta == (Meta{}) {
		return nil
	}
	return meta
}

// DateDisplay returns the capture date formatted for the manifest,
// e.g. "January 05, 2026". Empty when no capture time was found.
func (m *Meta) DateDisplay() string {
	if m == nil || m.Captured.IsZero() {
		return ""
	}
	return m.Captured.Format("January 02, 2006")
}

// SortKey returns a lexicographically sortable capture timestamp,
// e.g. "20260105143000". Empty when no capture time was found.
func (m *Meta) SortKey() string {
	if m == nil || m.Captured.IsZero() {
		return ""
	}
	return m.Captured.Format("20060102150405")
}

// cameraName combines Make and Model. Many vendors repeat the make
// inside the model field; the duplicate prefix is stripped.
func cameraName(x *exif.Exif) string {
	make := stringTag(x, exif.Make)
	model := stringTag(x, exif.Model)
	switch {
	case make != "" && model != "":
		if strings.HasPrefix(model, make) {
			model = strings.TrimSpace(strings.TrimPrefix(model, make))
		}
		return strings.TrimSpace(make + " " + model)
	case model != "":
		return model
	}
	return ""
}

// focalLength formats FocalLength as a whole-millimeter string ("85mm").
func focalLength(x *exif.Exif) string {
	val, ok := ratValue(x, exif.FocalLength)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%dmm", int(val))
}

// aperture formats FNumber as "f/1.8", dropping a trailing ".0".
func aperture(x *exif.Exif) string {
	val, ok := ratValue(x, exif.FNumber)
	if !ok {
		return ""
	}
	s := fmt.Sprintf("f/%.1f", val)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}

// shutterSpeed formats ExposureTime as "1/250s" for fractional exposures
// and "2.5s" for exposures of a second or longer.
func shutterSpeed(x *exif.Exif) string {
	tag, err := x.Get(exif.ExposureTime)
	if err != nil {
		return ""
	}
	num, den, err := tag.Rat2(0)
	if err != nil {
		return ""
	}
	if num == 1 && den > 0 {
		return fmt.Sprintf("1/%ds", den)
	}
	if den == 0 {
		return fmt.Sprintf("%.1fs", float64(num))
	}
	val := float64(num) / float64(den)
	if val < 1 {
		return fmt.Sprintf("1/%ds", int(1/val))
	}
	return fmt.Sprintf("%.1fs", val)
}

func isoValue(x *exif.Exif) string {
	tag, err := x.Get(exif.ISOSpeedRatings)
	if err != nil {
		return ""
	}
	v, err := tag.Int(0)
	if err != nil {
		return ""
	}
	return strconv.Itoa(v)
}

func captureTime(x *exif.Exif) (time.Time, bool) {
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, false
	}
	s, err := tag.StringVal()
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(exifTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func stringTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// ratValue resolves a rational tag to a float. A zero denominator is
// treated as a plain integer value, matching how capture software
// writes degenerate rationals.
func ratValue(x *exif.Exif, name exif.FieldName) (float64, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	num, den, err := tag.Rat2(0)
	if err != nil {
		return 0, false
	}
	if den == 0 {
		return float64(num), true
	}
	return float64(num) / float64(den), true
}
