package template

import (
	"fmt"
	"os"

	"github.com/marcelsud/webhook-notifier/event"
	"gopkg.in/yaml.v3"
)

// File represents the structure of templates.yaml
type File struct {
	Templates []TemplateFile `yaml:"templates"`
}

// TemplateFile represents a single template in the YAML file
type TemplateFile struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Rank        int           `yaml:"rank"`
	Formats     []string      `yaml:"formats"`
	DateFormat  string        `yaml:"date_format"`
	Content     []ContentFile `yaml:"content"`
}

// ContentFile is one template text, possibly shared by several states
type ContentFile struct {
	States     []event.Kind `yaml:"states"`
	Text       string       `yaml:"text"`
	Enabled    *bool        `yaml:"enabled"` // Default: true
	DateFormat string       `yaml:"date_format"`
	Variant    string       `yaml:"variant"` // default, branch or all. Default: default
}

// LoadFile reads and parses a templates file
func LoadFile(filePath string) ([]Template, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading templates file: %w", err)
	}
	return Parse(data)
}

// Parse converts templates YAML into validated templates
func Parse(data []byte) ([]Template, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing templates YAML: %w", err)
	}

	templates := make([]Template, 0, len(file.Templates))
	for _, tf := range file.Templates {
		t, err := tf.toTemplate()
		if err != nil {
			return nil, fmt.Errorf("validating template: %w", err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("validating template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, nil
}

func (tf TemplateFile) toTemplate() (Template, error) {
	t := Template{
		ID:          tf.ID,
		Name:        tf.Name,
		Description: tf.Description,
		Rank:        tf.Rank,
		Formats:     tf.Formats,
		DateFormat:  tf.DateFormat,
	}

	for i, cf := range tf.Content {
		variant := NewVariant(cf.Variant)
		if variant == 0 {
			return Template{}, fmt.Errorf("template %s content %d: unknown variant %q", tf.ID, i, cf.Variant)
		}
		if len(cf.States) == 0 {
			return Template{}, fmt.Errorf("template %s content %d: states cannot be empty", tf.ID, i)
		}
		enabled := true
		if cf.Enabled != nil {
			enabled = *cf.Enabled
		}

		for _, state := range cf.States {
			if t.defines(state, variant) {
				return Template{}, fmt.Errorf("template %s: state %s declared twice for %s variant", tf.ID, state, variant)
			}
			t = t.With(Content{
				State:      state,
				Text:       cf.Text,
				Enabled:    enabled,
				DateFormat: cf.DateFormat,
			}, variant)
		}
	}
	return t, nil
}

func (t Template) defines(k event.Kind, v Variant) bool {
	_, inDefault := t.states[k]
	_, inBranch := t.branchStates[k]
	switch v {
	case VariantDefault:
		return inDefault
	case VariantBranch:
		return inBranch
	}
	return inDefault || inBranch
}

// Load reads a templates file and replaces the registered set
func (r *Registry) Load(filePath string) error {
	templates, err := LoadFile(filePath)
	if err != nil {
		return err
	}
	return r.Replace(templates)
}
