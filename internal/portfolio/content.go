// internal/portfolio/content.go
//
// Folio – Portfolio site content.
//
// Context
//   Everything the page shows besides the contact form: owner details,
//   social links, the project grid, and the about section.  Content comes
//   from a YAML file (site.content_path) or, when none is configured, from
//   the built-in Default.
//
//   Load validates with go-playground/validator and assigns each project a
//   unique URL slug.  The result is read-only after Load returns.
//
//------------------------------------------------------------------------------

package portfolio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Project tile sizes in the grid.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
	SizeWide   = "wide"
)

type Personal struct {
	Name      string `yaml:"name"      validate:"required,max=100"`
	Handle    string `yaml:"handle"`
	Title     string `yaml:"title"     validate:"required"`
	Location  string `yaml:"location"`
	Email     string `yaml:"email"     validate:"omitempty,email"`
	Available bool   `yaml:"available"`
}

type Social struct {
	Platform string `yaml:"platform" validate:"required"`
	URL      string `yaml:"url"      validate:"required,url"`
}

type Project struct {
	Title    string `yaml:"title"    validate:"required,max=200"`
	Category string `yaml:"category" validate:"required"`
	Image    string `yaml:"image"`
	Size     string `yaml:"size"     validate:"oneof=small medium large wide"`
	Summary  string `yaml:"summary"`

	// Slug is derived from Title unless set explicitly.
	Slug string `yaml:"slug,omitempty"`
}

type Experience struct {
	Role   string `yaml:"role"   validate:"required"`
	Period string `yaml:"period" validate:"required"`
}

type About struct {
	Paragraphs []string     `yaml:"paragraphs" validate:"min=1,dive,required"`
	Skills     []string     `yaml:"skills"     validate:"dive,required"`
	Experience []Experience `yaml:"experience" validate:"dive"`
}

// Content is the whole site.
type Content struct {
	Personal Personal  `yaml:"personal"`
	Social   []Social  `yaml:"social"   validate:"dive"`
	Projects []Project `yaml:"projects" validate:"min=1,dive"`
	About    About     `yaml:"about"`

	bySlug map[string]int
}

var validate = validator.New()

// Load reads content from path.  An empty path returns Default().
func Load(path string) (*Content, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("portfolio: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates YAML content.  Unknown keys are rejected so
// typos surface at startup.
func Parse(raw []byte) (*Content, error) {
	var c Content
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty content file")
		}
		return nil, err
	}
	if err := c.finish(); err != nil {
		return nil, err
	}
	return &c, nil
}

// finish validates c and indexes project slugs.
func (c *Content) finish() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	c.bySlug = make(map[string]int, len(c.Projects))
	for i := range c.Projects {
		p := &c.Projects[i]
		base := p.Slug
		if base == "" {
			base = MakeSlug(p.Title)
		} else {
			base = MakeSlug(base)
		}
		slug := base
		for n := 2; ; n++ {
			if _, taken := c.bySlug[slug]; !taken {
				break
			}
			slug = base + "-" + strconv.Itoa(n)
		}
		p.Slug = slug
		c.bySlug[slug] = i
	}
	return nil
}

// OwnerEmail is where contact messages go: the email shown on the page,
// or configured when the content names none.
func (c *Content) OwnerEmail(configured string) string {
	if c.Personal.Email != "" {
		return c.Personal.Email
	}
	return configured
}

// ProjectBySlug returns the project with slug.
func (c *Content) ProjectBySlug(slug string) (Project, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Project{}, false
	}
	return c.Projects[i], true
}
