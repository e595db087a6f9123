package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gallery-pipeline/internal/galleryconf"
	"gallery-pipeline/internal/publish"
	"gallery-pipeline/internal/workers"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, finishing in-flight uploads...")
		cancel()
	}()

	// Bucket credentials usually live in a .env file next to the gallery.
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment from .env")
	}

	switch command {
	case "upload":
		os.Exit(runUpload(ctx, os.Args[2:]))
	case "cors":
		os.Exit(runCORS(ctx, os.Args[2:]))
	default:
		// Sanitize command input using allowlist to break taint chain
		sanitized := sanitizeCommand(command)
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitized) //nolint:gosec // G705 - input is sanitized via allowlist in sanitizeCommand; only [a-zA-Z0-9_-] characters pass through
		printUsage()
		os.Exit(1)
	}
}

func runUpload(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	output := fs.String("output", "dist", "built gallery directory to upload")
	configPath := fs.String("config", "", "path to the TOML derivation profile")
	workerCount := fs.Int("workers", 0, "parallel uploads (default: 4 per CPU)")
	dryRun := fs.Bool("dry-run", false, "list what would be uploaded without contacting the bucket")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	profile, err := galleryconf.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	count := *workerCount
	if count <= 0 {
		count = workers.ForIO(0)
	}

	// Dry runs never need credentials; the uploader only walks the tree.
	if *dryRun {
		uploader := publish.NewUploader(nil, *output, count, true)
		summary, err := uploader.Upload(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Dry run: %d files would be uploaded.\n", summary.Scheduled)
		return 0
	}

	creds, err := publish.CredentialsFromEnv(profile.Publish.Bucket)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	manifest, err := publish.ReadManifest(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (run gallery-pipeline first)\n", err)
		return 1
	}
	items, err := publish.CollectFiles(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var total int64
	for _, item := range items {
		total += item.Size
	}
	fmt.Printf("Gallery: %s (%d images)\n", manifest.Title, len(manifest.Images))
	fmt.Printf("Bucket:  %s\n", creds.Bucket)
	fmt.Printf("Files:   %d (%s)\n", len(items), humanBytes(total))

	if !*yes {
		ok, err := confirm(fmt.Sprintf("Upload %d files to bucket %q? [y/N]: ", len(items), creds.Bucket))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if !ok {
			fmt.Println("Aborted.")
			return 1
		}
	}

	client, err := publish.NewClient(ctx, creds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := client.VerifyBucket(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	uploader := publish.NewUploader(client, *output, count, false)
	summary, err := uploader.Upload(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("Uploaded %d files (%s) in %v.\n",
		summary.Uploaded, humanBytes(summary.Bytes), summary.Duration.Round(time.Millisecond))
	fmt.Println("Manifest published, the gallery is live.")
	return 0
}

func runCORS(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("cors", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the TOML derivation profile")
	originList := fs.String("origins", "", "comma-separated allowed origins (default: profile origins, else any)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	profile, err := galleryconf.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	origins := profile.Publish.Origins
	if *originList != "" {
		origins = origins[:0]
		for _, o := range strings.Split(*originList, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	creds, err := publish.CredentialsFromEnv(profile.Publish.Bucket)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	client, err := publish.NewClient(ctx, creds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := client.VerifyBucket(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := client.ConfigureCORS(ctx, origins); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if len(origins) == 0 {
		fmt.Printf("CORS configured on %q for any origin.\n", creds.Bucket)
	} else {
		fmt.Printf("CORS configured on %q for %s.\n", creds.Bucket, strings.Join(origins, ", "))
	}
	return 0
}

// confirm prompts on stdin for a yes/no answer. It refuses to guess when
// stdin is not a terminal, so scripted runs must pass -yes.
func confirm(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("stdin is not a terminal, pass -yes to skip the prompt")
	}
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// sanitizeCommand returns a safe representation of a command string for
// display. It uses an allowlist approach, replacing any character that is
// not alphanumeric, a hyphen, or an underscore with '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

func printUsage() {
	fmt.Println("Gallery Publisher")
	fmt.Println("")
	fmt.Println("Usage: gallery-publish <command> [flags]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  upload  - Upload a built gallery to the R2 bucket")
	fmt.Println("  cors    - Configure bucket CORS for browser viewers")
	fmt.Println("")
	fmt.Println("Environment:")
	fmt.Println("  R2_ACCOUNT_ID        - Cloudflare account ID")
	fmt.Println("  R2_ACCESS_KEY_ID     - R2 access key")
	fmt.Println("  R2_ACCESS_KEY_SECRET - R2 secret key")
	fmt.Println("  R2_BUCKET_NAME       - bucket (default: publish.bucket from the profile)")
}
