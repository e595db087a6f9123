package galleryconf

import (
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"gallery-pipeline/internal/mediatypes"
)

// DefaultConfigFile is the configuration file the pipeline looks for when
// no -config flag is given. A missing default file is not an error; the
// built-in derivation profile applies.
const DefaultConfigFile = "gallery.toml"

// Built-in derivation profile.
const (
	DefaultThumbnailEdge    = 800
	DefaultThumbnailFormat  = "webp"
	DefaultThumbnailQuality = 90

	DefaultPreviewEdge    = 2400
	DefaultPreviewFormat  = "jpeg"
	DefaultPreviewQuality = 92

	DefaultTileSize    = 256
	DefaultTileOverlap = 1
	DefaultTileFormat  = "jpeg"
	DefaultTileQuality = 85
)

// Config is the root pipeline configuration, loaded from a TOML file.
type Config struct {
	Gallery  Gallery            `toml:"gallery"`
	Variants map[string]Variant `toml:"variants" validate:"dive"`
	Tiles    Tiles              `toml:"tiles"`
	Publish  Publish            `toml:"publish"`
}

// Gallery holds the manifest metadata fields.
type Gallery struct {
	Title    string `toml:"title"`
	Subtitle string `toml:"subtitle"`
	Author   string `toml:"author"`
}

// Variant describes one derived raster: the target long edge in pixels,
// the output format name, and the encoder quality.
type Variant struct {
	LongEdge int    `toml:"long_edge" validate:"gte=1,lte=16384"`
	Format   string `toml:"format" validate:"required"`
	Quality  int    `toml:"quality" validate:"gte=1,lte=100"`
}

// Tiles describes the pyramid tiling parameters.
type Tiles struct {
	Size    int    `toml:"size" validate:"gte=1,lte=4096"`
	Overlap int    `toml:"overlap" validate:"gte=0,ltfield=Size"`
	Format  string `toml:"format" validate:"required"`
	Quality int    `toml:"quality" validate:"gte=1,lte=100"`
}

// Publish holds upload settings consumed by gallery-publish. Credentials
// come from the environment, never from the config file.
type Publish struct {
	Bucket    string   `toml:"bucket"`
	PublicURL string   `toml:"public_url"`
	Origins   []string `toml:"origins"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report TOML key names in problems, not Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load reads and parses a TOML configuration file and fills in defaults.
// An empty path loads DefaultConfigFile when it exists and otherwise
// returns the built-in profile. The result is already validated.
func Load(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			cfg := &Config{}
			cfg.loadDefaults()
			return cfg, nil
		}
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.loadDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDefaults fills zero values with the built-in derivation profile.
// An explicit [variants] table replaces the default set entirely; the
// tile parameters default field by field.
func (c *Config) loadDefaults() {
	if len(c.Variants) == 0 {
		c.Variants = map[string]Variant{
			"thumbnail": {LongEdge: DefaultThumbnailEdge, Format: DefaultThumbnailFormat, Quality: DefaultThumbnailQuality},
			"preview":   {LongEdge: DefaultPreviewEdge, Format: DefaultPreviewFormat, Quality: DefaultPreviewQuality},
		}
	}
	if c.Tiles.Size == 0 {
		c.Tiles.Size = DefaultTileSize
		if c.Tiles.Overlap == 0 {
			c.Tiles.Overlap = DefaultTileOverlap
		}
	}
	if c.Tiles.Format == "" {
		c.Tiles.Format = DefaultTileFormat
	}
	if c.Tiles.Quality == 0 {
		c.Tiles.Quality = DefaultTileQuality
	}
}

// Validate checks field bounds and cross-field constraints. It reports
// every problem it finds, not just the first one.
func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validate config: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, describeFieldError(fe))
		}
	}

	for name, v := range c.Variants {
		if _, ok := mediatypes.FormatExtension(v.Format); v.Format != "" && !ok {
			problems = append(problems, fmt.Sprintf("variants.%s: unsupported format %q", name, v.Format))
		}
	}
	// Tile encoding is pure Go, so webp is a valid variant format but
	// not a valid tile format.
	switch strings.ToLower(c.Tiles.Format) {
	case "", "jpeg", "jpg", "png":
	default:
		problems = append(problems, fmt.Sprintf("tiles: unsupported format %q (tiles support jpeg and png)", c.Tiles.Format))
	}
	if len(c.Variants) == 0 {
		problems = append(problems, "variants: at least one variant is required")
	} else {
		// Manifest records carry thumbnail and preview paths, so a
		// variant set without those names could never publish anything.
		for _, name := range []string{"thumbnail", "preview"} {
			if _, ok := c.Variants[name]; !ok {
				problems = append(problems, fmt.Sprintf("variants: the %q variant is required", name))
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

// VariantNames returns the configured variant names in sorted order, for
// stable logging and summaries.
func (c *Config) VariantNames() []string {
	names := make([]string, 0, len(c.Variants))
	for name := range c.Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// describeFieldError turns a validator error into a readable problem string.
func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Namespace())
	field = strings.TrimPrefix(field, "config.")
	switch fe.Tag() {
	case "required":
		return field + ": required"
	case "gte":
		return field + ": must be at least " + fe.Param()
	case "lte":
		return field + ": must be at most " + fe.Param()
	case "ltfield":
		return field + ": must be less than " + strings.ToLower(fe.Param())
	default:
		return field + ": invalid value"
	}
}
