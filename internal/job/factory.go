package job

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"text/template"
)

// DefaultOutputTemplate places outputs next to the input, e.g.
// exports/bunq.csv -> exports/bunq.income.csv.
const DefaultOutputTemplate = "{{.dir}}/{{.stem}}.{{.kind}}.csv"

var ErrMissingField = errors.New("missing manifest field")

// outputKinds lists the output columns each broker expects, in order.
var outputKinds = map[string][]string{
	"bunq":       {"income"},
	"trading212": {"trades", "income"},
	"t212":       {"trades", "income"},
}

// Job is a single conversion read from a manifest line.
type Job struct {
	Line    int
	Broker  string
	Input   string
	Outputs []string
}

type Factory struct {
	outputTemplate *template.Template
}

func NewFactory(outputTemplate string) (*Factory, error) {
	if outputTemplate == "" {
		outputTemplate = DefaultOutputTemplate
	}
	tpl, err := template.New("output").Option("missingkey=error").Parse(outputTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid output template: %w", err)
	}
	return &Factory{outputTemplate: tpl}, nil
}

// Build maps a manifest row onto a Job. The manifest needs "broker" and
// "input" columns; "<kind>_output" columns (income_output, trades_output)
// are optional and fall back to the output template.
func (f *Factory) Build(header, row []string) (*Job, error) {
	data := make(map[string]string)
	for i, h := range header {
		if i < len(row) {
			data[strings.TrimSpace(h)] = strings.TrimSpace(row[i])
		}
	}

	broker := strings.ToLower(data["broker"])
	if broker == "" {
		return nil, fmt.Errorf("%w: broker", ErrMissingField)
	}
	input := data["input"]
	if input == "" {
		return nil, fmt.Errorf("%w: input", ErrMissingField)
	}
	kinds, ok := outputKinds[broker]
	if !ok {
		return nil, fmt.Errorf("unknown broker %q", data["broker"])
	}

	data["dir"], data["stem"] = splitInput(input)

	outputs := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		if out := data[kind+"_output"]; out != "" {
			outputs = append(outputs, out)
			continue
		}
		data["kind"] = kind
		var buf bytes.Buffer
		if err := f.outputTemplate.Execute(&buf, data); err != nil {
			return nil, err
		}
		outputs = append(outputs, buf.String())
	}

	return &Job{
		Broker:  broker,
		Input:   input,
		Outputs: outputs,
	}, nil
}

// splitInput returns the directory and the extension-less base name of input.
// s3 inputs keep their bucket prefix; http(s) inputs cannot be written back,
// so their outputs land in the working directory.
func splitInput(input string) (dir, stem string) {
	if scheme, rest, ok := strings.Cut(input, "://"); ok {
		if i := strings.IndexAny(rest, "?#"); i >= 0 && scheme != "s3" {
			rest = rest[:i]
		}
		base := path.Base(rest)
		stem = strings.TrimSuffix(base, path.Ext(base))
		if scheme == "http" || scheme == "https" {
			return ".", stem
		}
		return scheme + "://" + path.Dir(rest), stem
	}
	base := filepath.Base(input)
	return filepath.Dir(input), strings.TrimSuffix(base, filepath.Ext(base))
}
