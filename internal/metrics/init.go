package metrics

// InitializeMetrics pre-populates the expected label combinations so that
// every metric is exported from the first Prometheus scrape instead of
// appearing mid-run. Call once at startup with the configured variant
// names.
func InitializeMetrics(variants []string) {
	// --- Per-image outcomes ---
	for _, status := range []string{"success", "failed", "skipped"} {
		ImagesProcessedTotal.WithLabelValues(status)
	}
	for _, state := range []string{"scheduled", "succeeded", "failed", "skipped"} {
		BuildImages.WithLabelValues(state)
	}

	// --- Ingest rejection reasons ---
	for _, reason := range []string{"unreadable", "missing_dimensions"} {
		IngestErrorsTotal.WithLabelValues(reason)
	}

	// --- Raster variants (names come from configuration) ---
	for _, variant := range variants {
		VariantDuration.WithLabelValues(variant)
		VariantsTotal.WithLabelValues(variant, "success")
		VariantsTotal.WithLabelValues(variant, "error")
	}

	// --- Pyramid and upload outcomes ---
	for _, status := range []string{"success", "error"} {
		PyramidsTotal.WithLabelValues(status)
		UploadsTotal.WithLabelValues(status)
	}

	// --- Filesystem retries ---
	for _, op := range []string{"stat", "open"} {
		FilesystemRetriesTotal.WithLabelValues(op)
		FilesystemStaleTotal.WithLabelValues(op)
	}
}
