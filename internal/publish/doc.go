// Package publish uploads a built gallery tree to Cloudflare R2 through
// the S3-compatible API.
//
// Ordering is the one invariant that matters here: every asset uploads
// before the manifest does. The manifest is the entry point viewers
// load, so a reader must never see it reference an object that is not
// in the bucket yet. Asset uploads run in parallel; the manifest upload
// is the final, single step, and it is skipped entirely when any asset
// failed.
//
// Credentials come from the environment (R2_ACCOUNT_ID,
// R2_ACCESS_KEY_ID, R2_ACCESS_KEY_SECRET, R2_BUCKET_NAME), never from
// the config file. The bucket name may default from the [publish]
// config section.
package publish
