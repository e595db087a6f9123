package pipeline

import (
	"io"
	"path"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"gallery-pipeline/internal/atomicfile"
	"gallery-pipeline/internal/filesystem"
	"gallery-pipeline/internal/gallery"
	"gallery-pipeline/internal/ingest"
	"gallery-pipeline/internal/raster"
)

// processImage runs the full derivation chain for one master: ingest,
// master copy, then every variant and the pyramid concurrently over one
// shared decode. It always returns a result; failures are collected for
// the build summary rather than aborting the batch.
func (p *Pipeline) processImage(job imageJob) imageResult {
	start := time.Now()
	res := imageResult{index: job.index, relPath: job.relPath}

	master, err := ingest.Ingest(job.path, job.relPath)
	if err != nil {
		res.failures = append(res.failures, newFailure(job.relPath, "ingest", err))
		return res
	}

	// The untouched master is published alongside the derived assets
	// for full-resolution download.
	masterRel := MasterRelPath(master.ID, master.Format)
	if err := copyFile(job.path, absPath(p.outputDir, masterRel)); err != nil {
		res.failures = append(res.failures, newFailure(job.relPath, "master", err))
		return res
	}

	// One shared decode feeds the pyramid and the pure-Go raster path;
	// a header that probes fine can still have a corrupt body.
	img, err := imaging.Open(job.path, imaging.AutoOrientation(true))
	if err != nil {
		res.failures = append(res.failures, newFailure(job.relPath, "decode",
			&ingest.UnreadableImageError{Path: job.path, Err: err}))
		return res
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []Failure
		derived  = make(map[string]string, len(p.variants))
		tilesRel string
	)

	src := raster.Source{Path: job.path, Img: img, Width: master.Width, Height: master.Height}
	for _, v := range p.variants {
		wg.Add(1)
		go func(v raster.Variant) {
			defer wg.Done()
			rel := VariantRelPath(v.Name, master.ID, v.Format)
			_, err := raster.Derive(src, v, absPath(p.outputDir, rel))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, newFailure(job.relPath, "variant:"+v.Name, err))
				return
			}
			derived[v.Name] = rel
		}(v)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := p.tiler.Build(img, absPath(p.outputDir, TilesRelPath(master.ID)))
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failures = append(failures, newFailure(job.relPath, "pyramid", err))
			return
		}
		tilesRel = TilesRelPath(master.ID)
	}()

	wg.Wait()

	res.failures = append(res.failures, failures...)
	res.record = buildRecord(master, derived, tilesRel, masterRel)
	res.duration = time.Since(start)
	return res
}

// buildRecord assembles the manifest entry from whatever derivation
// produced. Missing paths stay empty; the assembler decides whether the
// record is publishable.
func buildRecord(master *ingest.Master, derived map[string]string, tilesRel, masterRel string) *gallery.Record {
	rec := &gallery.Record{
		ID:           master.ID,
		Title:        master.Title,
		Filename:     path.Base(master.RelPath),
		Collection:   master.Collection,
		Date:         master.Meta.DateDisplay(),
		Location:     master.Location,
		Width:        master.Width,
		Height:       master.Height,
		AspectRatio:  gallery.Ratio(master.Width, master.Height),
		Thumbnail:    derived["thumbnail"],
		Preview:      derived["preview"],
		Tiles:        tilesRel,
		Master:       masterRel,
		MasterSize:   master.FileSize,
		MasterFormat: master.Format,
		DateSort:     master.Meta.SortKey(),
	}
	if m := master.Meta; m != nil {
		rec.Description = m.Description
		rec.Camera = m.Camera
		rec.Lens = m.Lens
		rec.FocalLength = m.FocalLength
		rec.Aperture = m.Aperture
		rec.ShutterSpeed = m.ShutterSpeed
		rec.ISO = m.ISO
	}
	return rec
}

// copyFile publishes src to dest atomically.
func copyFile(src, dest string) error {
	in, err := filesystem.OpenWithRetry(src, filesystem.DefaultRetryConfig())
	if err != nil {
		return err
	}
	defer in.Close()

	return atomicfile.Write(dest, 0o644, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}
