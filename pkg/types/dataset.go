// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Dataset is a benchmark or corpus under a task. A subdataset is a named
// partition of a dataset with its own leaderboard.
type Dataset struct {
	Name         string
	IsSubdataset bool
	Description  string

	// Parent is the owning dataset for subdatasets, nil otherwise.
	Parent *Dataset

	Sota        Sota
	Subdatasets []*Dataset
	Links       []Link
	Citations   []Link
}

// NewDataset returns a top-level dataset with the given name.
func NewDataset(name, description string) *Dataset {
	return &Dataset{Name: name, Description: description}
}

// AddSubdataset marks sub as a subdataset of d and appends it.
func (d *Dataset) AddSubdataset(sub *Dataset) {
	sub.IsSubdataset = true
	sub.Parent = d
	d.Subdatasets = append(d.Subdatasets, sub)
}

// HasSota reports whether the dataset or any of its subdatasets, at any
// depth, has leaderboard rows.
func (d *Dataset) HasSota() bool {
	if d.Sota.HasRows() {
		return true
	}
	for _, sub := range d.Subdatasets {
		if sub.HasSota() {
			return true
		}
	}
	return false
}

// Sota is a leaderboard table: the metric columns and the reported results.
type Sota struct {
	// Metrics lists metric names in table column order.
	Metrics []string `json:"metrics" yaml:"metrics"`

	Rows []SotaRow `json:"rows" yaml:"rows"`
}

// HasRows reports whether the table has at least one row.
func (s Sota) HasRows() bool {
	return len(s.Rows) > 0
}

// SotaRow is one model's reported result on one dataset or subdataset.
type SotaRow struct {
	// ModelName is required and never empty for parsed rows.
	ModelName  string `json:"model_name" yaml:"model_name"`
	PaperTitle string `json:"paper_title" yaml:"paper_title"`
	PaperURL   string `json:"paper_url" yaml:"paper_url"`

	// PaperDate is the publication date when the source reports one.
	PaperDate *time.Time `json:"paper_date" yaml:"paper_date"`

	CodeLinks  []Link `json:"code_links" yaml:"code_links"`
	ModelLinks []Link `json:"model_links" yaml:"model_links"`

	// Metrics maps metric name to the value exactly as the source reports it.
	Metrics map[string]string `json:"metrics" yaml:"metrics"`

	UsesAdditionalData bool `json:"uses_additional_data" yaml:"uses_additional_data"`
}
