// Package export serializes bounding-box collections for downstream coarse
// search tools. Boxes are grouped by owning rank; each record carries the
// element id, its rank and the two corners.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/chazu/meshbox/pkg/geom"
	"github.com/chazu/meshbox/pkg/search"
)

// Supported formats.
const (
	JSON    = "json"
	YAML    = "yaml"
	Msgpack = "msgpack"
)

// Record is one exported box.
type Record struct {
	ID   uint64    `json:"id" yaml:"id" msgpack:"id"`
	Proc uint32    `json:"proc" yaml:"proc" msgpack:"proc"`
	Low  []float64 `json:"low" yaml:"low,flow" msgpack:"low"`
	High []float64 `json:"high" yaml:"high,flow" msgpack:"high"`
}

// RankBoxes holds the boxes one rank produced, in traversal order.
type RankBoxes struct {
	Rank  uint32   `json:"rank" yaml:"rank" msgpack:"rank"`
	Boxes []Record `json:"boxes" yaml:"boxes" msgpack:"boxes"`
}

// Document is the top-level exported value.
type Document struct {
	Dim   int         `json:"dim" yaml:"dim" msgpack:"dim"`
	Ranks []RankBoxes `json:"ranks" yaml:"ranks" msgpack:"ranks"`
}

// Records converts boxes to records, preserving order.
func Records[P geom.Point](boxes []search.Box[P]) []Record {
	out := make([]Record, 0, len(boxes))
	for _, b := range boxes {
		low, high := b.Low(), b.High()
		r := Record{
			ID:   b.Key().ID,
			Proc: b.Key().Proc,
			Low:  make([]float64, len(low)),
			High: make([]float64, len(high)),
		}
		for d := 0; d < len(low); d++ {
			r.Low[d] = low[d]
			r.High[d] = high[d]
		}
		out = append(out, r)
	}
	return out
}

// NewDocument builds a document from per-rank collections keyed by rank.
// Ranks are emitted in ascending order.
func NewDocument[P geom.Point](perRank map[uint32][]search.Box[P]) *Document {
	doc := &Document{Dim: geom.Dim[P](), Ranks: make([]RankBoxes, 0, len(perRank))}
	for rank, boxes := range perRank {
		doc.Ranks = append(doc.Ranks, RankBoxes{Rank: rank, Boxes: Records(boxes)})
	}
	sort.Slice(doc.Ranks, func(i, j int) bool { return doc.Ranks[i].Rank < doc.Ranks[j].Rank })
	return doc
}

// BoxCount returns the number of records across all ranks.
func (d *Document) BoxCount() int {
	n := 0
	for _, r := range d.Ranks {
		n += len(r.Boxes)
	}
	return n
}

// Write encodes doc to w in the given format.
func Write(w io.Writer, format string, doc *Document) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("export: json: %w", err)
		}
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("export: yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("export: yaml: %w", err)
		}
	case Msgpack:
		if err := msgpack.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("export: msgpack: %w", err)
		}
	default:
		return fmt.Errorf("export: unknown format %q", format)
	}
	return nil
}

// Read decodes a document written by Write.
func Read(r io.Reader, format string) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case JSON:
		err = json.NewDecoder(r).Decode(&doc)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	case Msgpack:
		err = msgpack.NewDecoder(r).Decode(&doc)
	default:
		return nil, fmt.Errorf("export: unknown format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("export: %s: %w", format, err)
	}
	return &doc, nil
}
