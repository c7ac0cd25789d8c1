package narrative

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	domain "github.com/gmalickovski/vibraweb/internal/domain"
)

// frontMatter holds the keys the loader acts on; editors may add others (title, tags) freely.
type frontMatter struct {
	Number *int   `yaml:"number"`
	ID     string `yaml:"id"`
}

// DirectorySource reads narratives laid out as <root>/<slug(label)>/<value>.md.
type DirectorySource struct {
	fsys     fs.FS
	renderer *renderer
}

var _ Source = (*DirectorySource)(nil)

// NewDirectorySource serves narratives from a directory on disk.
func NewDirectorySource(dir string) (*DirectorySource, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("narrative: content directory is required")
	}
	return NewFSSource(os.DirFS(dir)), nil
}

// NewFSSource serves narratives from an arbitrary file system.
func NewFSSource(fsys fs.FS) *DirectorySource {
	return &DirectorySource{fsys: fsys, renderer: newRenderer()}
}

// Lookup renders every paragraph of the matching markdown file into a block.
func (s *DirectorySource) Lookup(ctx context.Context, label string, value int) ([]domain.NarrativeBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slug := Slug(label)
	if slug == "" {
		return nil, ErrNotFound
	}
	file := path.Join(slug, strconv.Itoa(value)+".md")

	data, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("narrative: read %s: %w", file, err)
	}

	fm, body := splitFrontMatter(string(data))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return nil, fmt.Errorf("narrative: parse front matter %s: %w", file, err)
		}
	}
	if front.Number != nil && *front.Number != value {
		return nil, fmt.Errorf("narrative: %s declares number %d", file, *front.Number)
	}

	prefix := strings.TrimSpace(front.ID)
	if prefix == "" {
		prefix = slug + "-" + strconv.Itoa(value)
	}

	paragraphs := splitParagraphs(body)
	if len(paragraphs) == 0 {
		return nil, ErrNotFound
	}
	blocks := make([]domain.NarrativeBlock, 0, len(paragraphs))
	for i, paragraph := range paragraphs {
		html, err := s.renderer.render(paragraph)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, domain.NarrativeBlock{
			ID:   fmt.Sprintf("%s-%d", prefix, i+1),
			Text: paragraph,
			HTML: html,
		})
	}
	return blocks, nil
}

// Ping verifies the content root is readable.
func (s *DirectorySource) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := fs.ReadDir(s.fsys, "."); err != nil {
		return fmt.Errorf("narrative: content directory: %w", err)
	}
	return nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n")
		}
	}
	return "", input
}
