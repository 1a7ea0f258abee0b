// Package templates expands a directory of rule file templates for a named
// context before the rules are loaded.
//
// Templates use the delimiters <{[ and ]}> so that they do not clash with
// the {{ }} used inside alert annotations. Variables come from default.vars,
// overridden by <context>.vars, with "context" always set to the context
// name.
package templates

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v2"
)

var log = logrus.WithField("component", "templates")

// DefaultTempDirectory is the parent of expansion output directories.
var DefaultTempDirectory = filepath.Join(os.TempDir(), "prometheus-rules-viewer")

// Expansion describes the output of expanding a Set for one context.
type Expansion struct {
	// Context the expansion was made for.
	Context string
	// Directory holding the expanded files.
	Directory string
	// Files is every file written, relative to Directory. Unit tests are
	// prefixed with "tests/".
	Files []string
}

// Cleanup removes the expansion output.
func (e *Expansion) Cleanup() {
	if e == nil || e.Directory == "" {
		return
	}
	if err := os.RemoveAll(e.Directory); err != nil {
		log.WithField("directory", e.Directory).Warnf("cleanup failed: %s", err)
	}
}

// Values holds the variables from a .vars file.
type Values struct {
	Values map[string]string
}

// Set is a parsed template directory.
type Set struct {
	sourceDir string
	variables map[string]Values
	templates map[string]*template.Template
}

// Expand parses sourceDir and expands it for context in one step.
func Expand(sourceDir, context string) (*Expansion, error) {
	set, err := Load(sourceDir)
	if err != nil {
		return nil, err
	}
	return set.Expand(context)
}

// Load parses every *.yaml template and *.vars file in directory.
func Load(directory string) (*Set, error) {
	s := &Set{
		sourceDir: directory,
		variables: make(map[string]Values),
		templates: make(map[string]*template.Template),
	}

	names, err := filepath.Glob(filepath.Join(directory, "*.vars"))
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		context, values, err := readValues(name)
		if err != nil {
			return nil, errors.Wrapf(err, "reading variables %s", name)
		}
		s.variables[context] = values
	}

	names, err = filepath.Glob(filepath.Join(directory, "*.yaml"))
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		base := filepath.Base(name)
		tmpl, err := template.New(base).Delims("<{[", "]}>").ParseFiles(name)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing template %s", name)
		}
		s.templates[base] = tmpl
	}

	return s, nil
}

// Contexts lists the contexts that have a .vars file, "default" included.
func (s *Set) Contexts() []string {
	rv := make([]string, 0, len(s.variables))
	for name := range s.variables {
		rv = append(rv, name)
	}
	sort.Strings(rv)
	return rv
}

// variablesFor returns the context-specific Values, or an empty Values if
// there is none.
func (s *Set) variablesFor(context string) Values {
	if rv, ok := s.variables[context]; ok {
		return rv
	}
	return Values{}
}

// readValues reads a context variables file, returning the context name and
// the parsed variables.
func readValues(name string) (string, Values, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return "", Values{}, err
	}
	return parseValues(name, data)
}

// parseValues parses YAML variables; the context name is the file's base
// name without the .vars extension.
func parseValues(name string, data []byte) (string, Values, error) {
	name = strings.TrimSuffix(filepath.Base(name), ".vars")
	rv := Values{Values: make(map[string]string)}
	if err := yaml.Unmarshal(data, &rv.Values); err != nil {
		return name, Values{}, err
	}
	return name, rv, nil
}

// mergeValues lets anything set in second override first.
func mergeValues(first, second Values) Values {
	rv := Values{Values: make(map[string]string, len(first.Values)+len(second.Values))}
	for key, val := range first.Values {
		rv.Values[key] = val
	}
	for key, val := range second.Values {
		rv.Values[key] = val
	}
	return rv
}

// Expand writes every template, expanded with the variables for context,
// into a new temporary directory, then copies tests/*.yaml unchanged into
// its tests/ subdirectory.
func (s *Set) Expand(context string) (*Expansion, error) {
	values := mergeValues(s.variablesFor("default"), s.variablesFor(context))
	values.Values["context"] = context

	if err := os.MkdirAll(DefaultTempDirectory, 0755); err != nil {
		return nil, err
	}
	outDir, err := os.MkdirTemp(DefaultTempDirectory, "tmp-"+context+"-")
	if err != nil {
		return nil, err
	}
	rv := &Expansion{Context: context, Directory: outDir}

	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := writeTemplate(filepath.Join(outDir, name), s.templates[name], values); err != nil {
			rv.Cleanup()
			return nil, errors.Wrapf(err, "expanding %s for context %s", name, context)
		}
		rv.Files = append(rv.Files, name)
	}

	tests, err := filepath.Glob(filepath.Join(s.sourceDir, "tests", "*.yaml"))
	if err != nil {
		rv.Cleanup()
		return nil, err
	}
	if len(tests) > 0 {
		if err := os.Mkdir(filepath.Join(outDir, "tests"), 0755); err != nil {
			rv.Cleanup()
			return nil, err
		}
	}
	for _, file := range tests {
		rel := filepath.Join("tests", filepath.Base(file))
		if err := copyFile(filepath.Join(outDir, rel), file); err != nil {
			rv.Cleanup()
			return nil, err
		}
		rv.Files = append(rv.Files, rel)
	}

	log.WithFields(logrus.Fields{"context": context, "directory": outDir, "files": len(rv.Files)}).Debug("expanded templates")
	return rv, nil
}

func writeTemplate(path string, tpl *template.Template, values Values) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tpl.Execute(out, values); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyFile(dst, src string) error {
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	sink, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(sink, source); err != nil {
		sink.Close()
		return err
	}
	return sink.Close()
}
