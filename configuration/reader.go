package configuration

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type ReadOptions struct {
	// Bindings are exposed to the job file template as {{ .Bindings.name }}
	Bindings map[string]string
}

type UnmarshalError struct {
	error
	Source string
}

type TemplateData struct {
	Env      map[string]string
	Bindings map[string]string
}

// Read loads a job file, evaluates it as a template and sanitizes the result.
func Read(file string, options ReadOptions) (*SanitizedConfiguration, error) {
	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(buf, options)
}

func Parse(buf []byte, options ReadOptions) (*SanitizedConfiguration, error) {
	source, err := evaluateTemplate(string(buf), options)
	if err != nil {
		return nil, fmt.Errorf("evaluate template: %w", err)
	}

	var job JobConfig
	decoder := yaml.NewDecoder(strings.NewReader(source))
	decoder.KnownFields(true)
	if err = decoder.Decode(&job); err != nil {
		return nil, UnmarshalError{fmt.Errorf("unmarshal: %w", err), source}
	}

	config, err := FromUnsanitized(job)
	if err != nil {
		return nil, UnmarshalError{fmt.Errorf("validate: %w", err), source}
	}
	return config, nil
}

func evaluateTemplate(source string, options ReadOptions) (string, error) {
	tmpl, err := template.New("job").
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		Parse(source)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	data := TemplateData{
		Env:      lo.SliceToMap(os.Environ(), func(env string) (key, val string) { key, val, _ = strings.Cut(env, "="); return }),
		Bindings: lo.Assign(options.Bindings),
	}

	var output bytes.Buffer
	if err := tmpl.Execute(&output, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return output.String(), nil
}
