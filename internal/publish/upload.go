package publish

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gallery-pipeline/internal/gallery"
	"gallery-pipeline/internal/logging"
	"gallery-pipeline/internal/mediatypes"
	"gallery-pipeline/internal/metrics"
)

// manifestKey is the object key of the gallery manifest. It is always
// uploaded last: the manifest is the pointer viewers follow, so it must
// never reference assets that are not in the bucket yet.
const manifestKey = "data/gallery.json"

const (
	immutableCacheControl = "public, max-age=31536000, immutable"
	manifestCacheControl  = "public, max-age=300, must-revalidate"
)

// Item is one file scheduled for upload.
type Item struct {
	Path string // absolute local path
	Key  string // slash-separated object key
	Size int64
}

// Summary reports the outcome of one publish run.
type Summary struct {
	Scheduled int
	Uploaded  int64
	Failed    int64
	Bytes     int64
	Duration  time.Duration
}

// Uploader pushes a built gallery tree to the bucket.
type Uploader struct {
	client  *Client
	root    string
	workers int
	dryRun  bool
}

// NewUploader creates an uploader over the built output tree at root.
func NewUploader(client *Client, root string, workerCount int, dryRun bool) *Uploader {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Uploader{
		client:  client,
		root:    root,
		workers: workerCount,
		dryRun:  dryRun,
	}
}

// Upload publishes every file under the output root. All assets upload
// in parallel; the manifest goes last and only after every asset
// succeeded. A canceled context stops scheduling while in-flight
// uploads finish.
func (u *Uploader) Upload(ctx context.Context) (*Summary, error) {
	start := time.Now()

	items, err := CollectFiles(u.root)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 || items[len(items)-1].Key != manifestKey {
		return nil, fmt.Errorf("no %s under %s, run a build first", manifestKey, u.root)
	}

	summary := &Summary{Scheduled: len(items)}

	if u.dryRun {
		for _, item := range items {
			logging.Info("Would upload %s (%d bytes)", item.Key, item.Size)
		}
		summary.Duration = time.Since(start)
		return summary, nil
	}

	assets, manifest := items[:len(items)-1], items[len(items)-1]
	logging.Info("Uploading %d files to %s with %d workers", len(items), u.client.Bucket(), u.workers)

	var (
		wg       sync.WaitGroup
		uploaded atomic.Int64
		failed   atomic.Int64
		bytes    atomic.Int64
	)
	jobs := make(chan Item, u.workers*2)

	for i := 0; i < u.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if err := u.uploadItem(ctx, item); err != nil {
					logging.Error("%v", err)
					failed.Add(1)
					continue
				}
				uploaded.Add(1)
				bytes.Add(item.Size)
			}
		}()
	}

enqueue:
	for _, item := range assets {
		select {
		case jobs <- item:
		case <-ctx.Done():
			logging.Warn("Abort requested, no further uploads will be scheduled")
			break enqueue
		}
	}
	close(jobs)
	wg.Wait()

	summary.Uploaded = uploaded.Load()
	summary.Failed = failed.Load()
	summary.Bytes = bytes.Load()

	switch {
	case ctx.Err() != nil:
		summary.Duration = time.Since(start)
		return summary, fmt.Errorf("upload aborted, manifest not published")
	case summary.Failed > 0:
		summary.Duration = time.Since(start)
		return summary, fmt.Errorf("%d upload(s) failed, manifest not published", summary.Failed)
	}

	// Every asset is in place; the manifest can now point at them.
	if err := u.uploadItem(ctx, manifest); err != nil {
		summary.Duration = time.Since(start)
		return summary, err
	}
	summary.Uploaded++
	summary.Bytes += manifest.Size
	summary.Duration = time.Since(start)
	return summary, nil
}

func (u *Uploader) uploadItem(ctx context.Context, item Item) error {
	start := time.Now()
	file, err := os.Open(item.Path)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("open %s: %w", item.Path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close %s: %v", item.Path, err)
		}
	}()

	err = u.client.putObject(ctx, item.Key, file, ContentTypeFor(item.Key), CacheControlFor(item.Key))
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.UploadsTotal.WithLabelValues("success").Inc()
	metrics.UploadBytesTotal.Add(float64(item.Size))
	metrics.UploadDuration.Observe(time.Since(start).Seconds())
	logging.Debug("uploaded %s (%d bytes)", item.Key, item.Size)
	return nil
}

// CollectFiles walks the built output tree and returns every file as an
// upload item, with the manifest moved to the end. Hidden files are
// ignored.
func CollectFiles(root string) ([]Item, error) {
	var items []Item
	var manifest *Item

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && p != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		item := Item{Path: p, Key: filepath.ToSlash(rel), Size: info.Size()}
		if item.Key == manifestKey {
			manifest = &item
			return nil
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect upload files: %w", err)
	}

	if manifest != nil {
		items = append(items, *manifest)
	}
	return items, nil
}

// CacheControlFor returns the cache policy for an object key. Derived
// assets are addressed by image ID and safe to cache forever; the
// manifest is the mutable entry point and must revalidate.
func CacheControlFor(key string) string {
	if key == manifestKey {
		return manifestCacheControl
	}
	return immutableCacheControl
}

// ContentTypeFor returns the MIME type for an object key.
func ContentTypeFor(key string) string {
	return mediatypes.GetMimeType(strings.ToLower(path.Ext(key)))
}

// ReadManifest loads the local manifest for the pre-upload summary.
func ReadManifest(root string) (*gallery.Manifest, error) {
	return gallery.Read(gallery.ManifestPath(root))
}
