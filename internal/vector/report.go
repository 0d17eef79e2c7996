package vector

import (
	"io"

	"gopkg.in/yaml.v3"
)

// Report is the YAML document written after a run.
type Report struct {
	Total   int      `yaml:"total"`
	Passed  int      `yaml:"passed"`
	Failed  int      `yaml:"failed"`
	Results []Result `yaml:"results"`
}

// NewReport summarizes results.
func NewReport(results []Result) Report {
	rep := Report{Total: len(results), Results: results}
	for _, r := range results {
		if r.Pass {
			rep.Passed++
		} else {
			rep.Failed++
		}
	}
	return rep
}

// Write renders the report as YAML.
func (rep Report) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}
