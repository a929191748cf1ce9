// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taskdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sota-extractor/pkg/types"
)

// SchemaVersion identifies the on-disk layout produced by EncodeTask.
const SchemaVersion = "v01"

// paperDateLayout is the on-disk form of SotaRow.PaperDate.
const paperDateLayout = "2006-01-02"

// The document types below are the on-disk contract. Fields are declared
// in key order so encoded JSON objects come out sorted. Every list is
// emitted as [] rather than null.

// TaskDoc is the encoded form of a task.
type TaskDoc struct {
	Categories  []string     `json:"categories" yaml:"categories"`
	Datasets    []DatasetDoc `json:"datasets" yaml:"datasets"`
	Description string       `json:"description" yaml:"description"`
	SourceLink  *types.Link  `json:"source_link" yaml:"source_link"`
	Subtasks    []TaskDoc    `json:"subtasks" yaml:"subtasks"`
	Synonyms    []string     `json:"synonyms" yaml:"synonyms"`
	Task        string       `json:"task" yaml:"task"`
}

// DatasetDoc is the encoded form of a dataset. Exactly one of Dataset and
// Subdataset is set; which one records whether it is a subdataset.
type DatasetDoc struct {
	Dataset          *string      `json:"dataset,omitempty" yaml:"dataset,omitempty"`
	DatasetCitations []types.Link `json:"dataset_citations" yaml:"dataset_citations"`
	DatasetLinks     []types.Link `json:"dataset_links" yaml:"dataset_links"`
	Description      string       `json:"description" yaml:"description"`
	Sota             SotaDoc      `json:"sota" yaml:"sota"`
	Subdataset       *string      `json:"subdataset,omitempty" yaml:"subdataset,omitempty"`
	Subdatasets      []DatasetDoc `json:"subdatasets" yaml:"subdatasets"`
}

// SotaDoc is the encoded form of a leaderboard.
type SotaDoc struct {
	Metrics []string `json:"metrics" yaml:"metrics"`
	Rows    []RowDoc `json:"rows" yaml:"rows"`
}

// RowDoc is the encoded form of a leaderboard row. ModelName is the only
// required field.
type RowDoc struct {
	CodeLinks          []types.Link           `json:"code_links" yaml:"code_links"`
	Metrics            map[string]MetricValue `json:"metrics" yaml:"metrics"`
	ModelLinks         []types.Link           `json:"model_links" yaml:"model_links"`
	ModelName          *string                `json:"model_name" yaml:"model_name"`
	PaperDate          *string                `json:"paper_date" yaml:"paper_date"`
	PaperTitle         string                 `json:"paper_title" yaml:"paper_title"`
	PaperURL           string                 `json:"paper_url" yaml:"paper_url"`
	UsesAdditionalData bool                   `json:"uses_additional_data" yaml:"uses_additional_data"`
}

// MetricValue is a metric cell. It encodes as a string and decodes from
// strings, numbers or booleans, keeping the literal text.
type MetricValue string

func (v *MetricValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case string:
		*v = MetricValue(x)
	case json.Number:
		*v = MetricValue(x.String())
	case bool:
		*v = MetricValue(strconv.FormatBool(x))
	case nil:
		*v = ""
	default:
		return fmt.Errorf("metric value must be a scalar, got %s", data)
	}
	return nil
}

func (v *MetricValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: metric value must be a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*v = ""
		return nil
	}
	*v = MetricValue(node.Value)
	return nil
}

// EncodeTask converts a task tree to its on-disk form. Parent references
// are not encoded.
func EncodeTask(t *types.Task) TaskDoc {
	doc := TaskDoc{
		Categories:  copyStrings(t.Categories),
		Datasets:    make([]DatasetDoc, 0, len(t.Datasets)),
		Description: t.Description,
		Subtasks:    make([]TaskDoc, 0, len(t.Subtasks)),
		Synonyms:    copyStrings(t.Synonyms),
		Task:        t.Name,
	}
	if t.SourceLink != nil {
		link := *t.SourceLink
		doc.SourceLink = &link
	}
	for _, d := range t.Datasets {
		doc.Datasets = append(doc.Datasets, encodeDataset(d))
	}
	for _, sub := range t.Subtasks {
		doc.Subtasks = append(doc.Subtasks, EncodeTask(sub))
	}
	return doc
}

func encodeDataset(d *types.Dataset) DatasetDoc {
	name := d.Name
	doc := DatasetDoc{
		DatasetCitations: copyLinks(d.Citations),
		DatasetLinks:     copyLinks(d.Links),
		Description:      d.Description,
		Sota: SotaDoc{
			Metrics: copyStrings(d.Sota.Metrics),
			Rows:    make([]RowDoc, 0, len(d.Sota.Rows)),
		},
		Subdatasets: make([]DatasetDoc, 0, len(d.Subdatasets)),
	}
	if d.IsSubdataset {
		doc.Subdataset = &name
	} else {
		doc.Dataset = &name
	}
	for _, r := range d.Sota.Rows {
		doc.Sota.Rows = append(doc.Sota.Rows, encodeRow(r))
	}
	for _, sub := range d.Subdatasets {
		doc.Subdatasets = append(doc.Subdatasets, encodeDataset(sub))
	}
	return doc
}

func encodeRow(r types.SotaRow) RowDoc {
	name := r.ModelName
	doc := RowDoc{
		CodeLinks:          copyLinks(r.CodeLinks),
		Metrics:            make(map[string]MetricValue, len(r.Metrics)),
		ModelLinks:         copyLinks(r.ModelLinks),
		ModelName:          &name,
		PaperTitle:         r.PaperTitle,
		PaperURL:           r.PaperURL,
		UsesAdditionalData: r.UsesAdditionalData,
	}
	if r.PaperDate != nil {
		date := r.PaperDate.Format(paperDateLayout)
		doc.PaperDate = &date
	}
	for k, v := range r.Metrics {
		doc.Metrics[k] = MetricValue(v)
	}
	return doc
}

// DecodeTask rebuilds a task tree from its on-disk form, restoring parent
// references from tree position. Absent fields take their zero values.
func DecodeTask(doc TaskDoc) (*types.Task, error) {
	t := &types.Task{
		Name:        doc.Task,
		Description: doc.Description,
		Categories:  copyStrings(doc.Categories),
		Synonyms:    copyStrings(doc.Synonyms),
		Datasets:    make([]*types.Dataset, 0, len(doc.Datasets)),
		Subtasks:    make([]*types.Task, 0, len(doc.Subtasks)),
	}
	if doc.SourceLink != nil {
		link := *doc.SourceLink
		t.SourceLink = &link
	}
	for _, dd := range doc.Datasets {
		d, err := decodeDataset(dd)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", doc.Task, err)
		}
		t.Datasets = append(t.Datasets, d)
	}
	for _, sd := range doc.Subtasks {
		sub, err := DecodeTask(sd)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", doc.Task, err)
		}
		sub.Parent = t
		t.Subtasks = append(t.Subtasks, sub)
	}
	return t, nil
}

func decodeDataset(doc DatasetDoc) (*types.Dataset, error) {
	d := &types.Dataset{
		Description: doc.Description,
		Links:       copyLinks(doc.DatasetLinks),
		Citations:   copyLinks(doc.DatasetCitations),
		Sota: types.Sota{
			Metrics: copyStrings(doc.Sota.Metrics),
			Rows:    make([]types.SotaRow, 0, len(doc.Sota.Rows)),
		},
		Subdatasets: make([]*types.Dataset, 0, len(doc.Subdatasets)),
	}
	switch {
	case doc.Dataset != nil:
		d.Name = *doc.Dataset
	case doc.Subdataset != nil:
		d.Name = *doc.Subdataset
		d.IsSubdataset = true
	}

	for i, rd := range doc.Sota.Rows {
		r, err := decodeRow(rd)
		if err != nil {
			return nil, fmt.Errorf("dataset %q row %d: %w", d.Name, i, err)
		}
		d.Sota.Rows = append(d.Sota.Rows, r)
	}
	for _, sd := range doc.Subdatasets {
		sub, err := decodeDataset(sd)
		if err != nil {
			return nil, err
		}
		sub.Parent = d
		d.Subdatasets = append(d.Subdatasets, sub)
	}
	return d, nil
}

func decodeRow(doc RowDoc) (types.SotaRow, error) {
	if doc.ModelName == nil {
		return types.SotaRow{}, ErrMissingModelName
	}
	r := types.SotaRow{
		ModelName:          *doc.ModelName,
		PaperTitle:         doc.PaperTitle,
		PaperURL:           doc.PaperURL,
		CodeLinks:          copyLinks(doc.CodeLinks),
		ModelLinks:         copyLinks(doc.ModelLinks),
		Metrics:            make(map[string]string, len(doc.Metrics)),
		UsesAdditionalData: doc.UsesAdditionalData,
	}
	if doc.PaperDate != nil && *doc.PaperDate != "" {
		date, err := parsePaperDate(*doc.PaperDate)
		if err != nil {
			return types.SotaRow{}, err
		}
		r.PaperDate = &date
	}
	for k, v := range doc.Metrics {
		r.Metrics[k] = string(v)
	}
	return r, nil
}

func parsePaperDate(s string) (time.Time, error) {
	if d, err := time.Parse(paperDateLayout, s); err == nil {
		return d, nil
	}
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid paper_date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}

func copyStrings(in []string) []string {
	return append(make([]string, 0, len(in)), in...)
}

func copyLinks(in []types.Link) []types.Link {
	return append(make([]types.Link, 0, len(in)), in...)
}
