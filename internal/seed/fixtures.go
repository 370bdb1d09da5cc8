package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type Image struct {
	URL string  `yaml:"url" validate:"required,url"`
	Alt *string `yaml:"alt"`
}

type Taxonomy struct {
	Name string `yaml:"name" validate:"required"`
	Slug string `yaml:"slug" validate:"omitempty,slug"`
}

type Product struct {
	Title       string   `yaml:"title" validate:"required"`
	Slug        string   `yaml:"slug" validate:"omitempty,slug"`
	Description *string  `yaml:"description"`
	Price       string   `yaml:"price" validate:"required"`
	Inactive    bool     `yaml:"inactive"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
	Images      []Image  `yaml:"images" validate:"dive"`
}

type News struct {
	Title     string  `yaml:"title" validate:"required"`
	Slug      string  `yaml:"slug" validate:"omitempty,slug"`
	Excerpt   *string `yaml:"excerpt"`
	Content   string  `yaml:"content" validate:"required"`
	Published bool    `yaml:"published"`
	Images    []Image `yaml:"images" validate:"dive"`
}

type Contact struct {
	Name    string  `yaml:"name" validate:"required"`
	Email   string  `yaml:"email" validate:"required,email"`
	Phone   *string `yaml:"phone"`
	Message string  `yaml:"message" validate:"required"`
}

type Admin struct {
	Email    string   `yaml:"email" validate:"required,email"`
	Name     *string  `yaml:"name"`
	Password string   `yaml:"password" validate:"required,min=8,max=72"`
	Roles    []string `yaml:"roles"`
}

// Fixtures is the on-disk shape of the demo content.
type Fixtures struct {
	Roles      []string   `yaml:"roles"`
	Admin      Admin      `yaml:"admin"`
	Categories []Taxonomy `yaml:"categories" validate:"dive"`
	Tags       []Taxonomy `yaml:"tags" validate:"dive"`
	Products   []Product  `yaml:"products" validate:"dive"`
	News       []News     `yaml:"news" validate:"dive"`
	Contacts   []Contact  `yaml:"contacts" validate:"dive"`
}

// Default returns the fixtures bundled with the binary.
func Default() (*Fixtures, error) {
	return Parse(defaultFixtures)
}

// Load reads fixtures from path.
func Load(path string) (*Fixtures, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates fixtures. Unknown keys are rejected so typos
// do not silently drop data.
func Parse(b []byte) (*Fixtures, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var f Fixtures
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})
	return v
}()

func (f *Fixtures) validate() error {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fe := verrs[0]
			return fmt.Errorf("invalid fixtures: %s failed %q", fe.Namespace(), fe.Tag())
		}
		return err
	}
	for _, p := range f.Products {
		if _, err := decimal.NewFromString(p.Price); err != nil {
			return fmt.Errorf("invalid fixtures: product %q price %q", p.Title, p.Price)
		}
	}
	return nil
}

// Slugify lower-cases s and joins its latin letters and digits with dashes.
// Anything else acts as a separator.
func Slugify(s string) string {
	var (
		b   strings.Builder
		gap bool
	)
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if gap && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			gap = false
		case r == '.' || r == '\'':
			// "node.js" reads as one word
		default:
			gap = true
		}
	}
	return b.String()
}

// Hasher derives password hashes for seeded accounts.
type Hasher interface {
	Hash(password string) (string, error)
}

// Build resolves fixtures into repository input: slugs are derived where
// missing, prices parsed and the admin password hashed.
func (f *Fixtures) Build(h Hasher) (repository.SeedData, error) {
	var data repository.SeedData

	for _, name := range f.Roles {
		r, err := model.ParseRole(name)
		if err != nil {
			return data, fmt.Errorf("role %q: %w", name, err)
		}
		data.Roles = append(data.Roles, r)
	}

	adminRoles, err := model.RoleSetFromNames(f.Admin.Roles)
	if err != nil {
		return data, fmt.Errorf("admin roles: %w", err)
	}
	hash, err := h.Hash(f.Admin.Password)
	if err != nil {
		return data, err
	}
	data.Admin = repository.SeedUser{
		Email:        strings.ToLower(strings.TrimSpace(f.Admin.Email)),
		Name:         f.Admin.Name,
		PasswordHash: hash,
		Roles:        adminRoles,
	}

	for _, c := range f.Categories {
		data.Categories = append(data.Categories, repository.SeedTaxonomy{Name: c.Name, Slug: slugOr(c.Slug, c.Name)})
	}
	for _, t := range f.Tags {
		data.Tags = append(data.Tags, repository.SeedTaxonomy{Name: t.Name, Slug: slugOr(t.Slug, t.Name)})
	}

	for _, p := range f.Products {
		price, _ := decimal.NewFromString(p.Price)
		sp := repository.SeedProduct{
			Title:        p.Title,
			Slug:         slugOr(p.Slug, p.Title),
			Description:  p.Description,
			Price:        price.Round(2),
			IsActive:     !p.Inactive,
			CategorySlug: p.Category,
			TagSlugs:     p.Tags,
			Images:       images(p.Images, p.Title),
		}
		data.Products = append(data.Products, sp)
	}

	for _, n := range f.News {
		data.News = append(data.News, repository.SeedNews{
			Title:       n.Title,
			Slug:        slugOr(n.Slug, n.Title),
			Excerpt:     n.Excerpt,
			Content:     n.Content,
			IsPublished: n.Published,
			Images:      images(n.Images, n.Title),
		})
	}

	for _, c := range f.Contacts {
		data.Contacts = append(data.Contacts, repository.SeedContact{
			Name:    c.Name,
			Email:   strings.ToLower(c.Email),
			Phone:   c.Phone,
			Message: c.Message,
		})
	}
	return data, checkSlugs(data)
}

func slugOr(slug, title string) string {
	if slug != "" {
		return slug
	}
	return Slugify(title)
}

// checkSlugs rejects titles that produced no usable slug.
func checkSlugs(data repository.SeedData) error {
	check := func(kind, title, slug string) error {
		if !slugRegex.MatchString(slug) {
			return fmt.Errorf("%s %q: cannot derive a slug, set one explicitly", kind, title)
		}
		return nil
	}
	for _, c := range data.Categories {
		if err := check("category", c.Name, c.Slug); err != nil {
			return err
		}
	}
	for _, t := range data.Tags {
		if err := check("tag", t.Name, t.Slug); err != nil {
			return err
		}
	}
	for _, p := range data.Products {
		if err := check("product", p.Title, p.Slug); err != nil {
			return err
		}
	}
	for _, n := range data.News {
		if err := check("news", n.Title, n.Slug); err != nil {
			return err
		}
	}
	return nil
}

// images falls back to title as alt text.
func images(in []Image, title string) []repository.ImageInput {
	out := make([]repository.ImageInput, 0, len(in))
	for _, img := range in {
		alt := img.Alt
		if alt == nil {
			t := title
			alt = &t
		}
		out = append(out, repository.ImageInput{URL: img.URL, Alt: alt})
	}
	return out
}
