// Command gallery-publish pushes a built gallery to a Cloudflare R2
// bucket.
//
// It supports the following operations:
//   - upload: Upload the output tree produced by gallery-pipeline
//   - cors: Configure bucket CORS so browsers can fetch tiles
//
// Usage:
//
//	gallery-publish <command> [flags]
//
// Commands:
//
//	upload  Upload every file under the output directory. Derived
//	        assets are sent first with immutable cache headers; the
//	        manifest (data/gallery.json) is sent last, and only when
//	        every asset made it, so viewers never see a manifest that
//	        points at missing files.
//
//	cors    Apply a GET/HEAD CORS policy to the bucket. Origins come
//	        from -origins, falling back to publish.origins in the
//	        profile, falling back to any origin.
//
// Environment:
//
//	R2_ACCOUNT_ID        - Cloudflare account ID
//	R2_ACCESS_KEY_ID     - R2 access key
//	R2_ACCESS_KEY_SECRET - R2 secret key
//	R2_BUCKET_NAME       - bucket name (default: publish.bucket from the profile)
//
// A .env file in the working directory is loaded before anything else.
//
// Notes:
//
// Upload asks for confirmation before touching the bucket; pass -yes
// in scripts. Interrupting an upload stops scheduling new files, lets
// in-flight transfers finish, and leaves the previously published
// manifest in place.
package main
