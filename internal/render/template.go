package render

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/valyala/fasttemplate"
)

var (
	// ErrTemplateNotFound indicates a report or page template is absent.
	ErrTemplateNotFound = errors.New("render: template not found")
	// ErrPlaceholder indicates a mismatch between a template's placeholders
	// and the model supplied to it, in either direction.
	ErrPlaceholder = errors.New("render: placeholder mismatch")
)

// RenderFile reads the template, substitutes every ${NAME} placeholder
// from the model, and regenerates the output file in full. Substitution is
// strict both ways: a placeholder without a model value and a model key
// the template never references both fail, and on failure the output file
// is left untouched.
func RenderFile(templatePath, outputPath string, model Model) error {
	raw, err := os.ReadFile(templatePath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, templatePath)
	}
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}

	used := make(map[string]bool, len(model))
	rendered, err := fasttemplate.ExecuteFuncStringWithErr(string(raw), "${", "}",
		func(w io.Writer, tag string) (int, error) {
			value, ok := model[tag]
			if !ok {
				return 0, fmt.Errorf("%w: template %s references unknown key %q", ErrPlaceholder, templatePath, tag)
			}
			used[tag] = true
			return io.WriteString(w, value)
		})
	if err != nil {
		return err
	}
	for key := range model {
		if !used[key] {
			return fmt.Errorf("%w: model key %q is unused by template %s", ErrPlaceholder, key, templatePath)
		}
	}

	if err := os.WriteFile(outputPath, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return nil
}
