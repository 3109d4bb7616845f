// Package prompts holds the static task instructions sent as system
// prompts. Each task is a YAML file rendered into "# role / # task /
// # input / # output / # note" blocks, then executed as a text/template.
package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Section is one numbered input block.
type Section struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Task is a single task's instruction set.
type Task struct {
	Name          string            `yaml:"-"`
	Role          string            `yaml:"role"`
	Task          string            `yaml:"task"`
	Inputs        []Section         `yaml:"inputs"`
	Output        string            `yaml:"output"`
	OutputExample string            `yaml:"output_example"`
	Notes         []string          `yaml:"notes"`
	LeadIns       map[string]string `yaml:"lead_ins"`
}

// Load reads and parses the named task definition.
func Load(name string) (*Task, error) {
	b, err := files.ReadFile(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("prompts: %s: %w", name, err)
	}
	var t Task
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("prompts: parse %s: %w", name, err)
	}
	if strings.TrimSpace(t.Role) == "" || strings.TrimSpace(t.Task) == "" {
		return nil, fmt.Errorf("prompts: %s: role and task are required", name)
	}
	t.Name = name
	return &t, nil
}

// MustLoad is Load for package-level prompt variables.
func MustLoad(name string) *Task {
	t, err := Load(name)
	if err != nil {
		panic(err)
	}
	return t
}

// LeadIn returns the short text placed before an input part.
func (t *Task) LeadIn(key string) string { return t.LeadIns[key] }

// System renders the system instruction with data.
func (t *Task) System(data any) (string, error) {
	var buf bytes.Buffer
	writeSection(&buf, "role", t.Role)
	writeSection(&buf, "task", t.Task)
	writeSection(&buf, "input", formatInputs(t.Inputs))
	writeSection(&buf, "output", t.Output)
	writeSection(&buf, "output example", fence(t.OutputExample))
	writeSection(&buf, "note", formatList(t.Notes))

	tmpl, err := template.New(t.Name).Option("missingkey=error").Parse(buf.String())
	if err != nil {
		return "", fmt.Errorf("prompts: %s: %w", t.Name, err)
	}
	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("prompts: render %s: %w", t.Name, err)
	}
	return strings.TrimSpace(out.String()) + "\n", nil
}

func formatInputs(inputs []Section) string {
	var buf strings.Builder
	for i, in := range inputs {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, strings.TrimSpace(in.Title))
		body := strings.TrimRight(in.Body, "\n")
		if strings.Contains(body, "```") {
			buf.WriteString(body)
		} else {
			buf.WriteString(fence(body))
		}
		buf.WriteString("\n\n")
	}
	return strings.TrimRight(buf.String(), "\n")
}

func fence(body string) string {
	body = strings.TrimRight(body, "\n")
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return "```\n" + body + "\n```"
}

func formatList(items []string) string {
	var buf strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fmt.Fprintf(&buf, "- %s\n", item)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("# ")
	buf.WriteString(title)
	buf.WriteString("\n")
	buf.WriteString(strings.TrimRight(body, "\n"))
	buf.WriteString("\n\n")
}
