package serialize

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/streamdbg/cdbg/cdbg"
)

type graphmlKey struct {
	XMLName  xml.Name `xml:"key"`
	ID       string   `xml:"id,attr"`
	For      string   `xml:"for,attr"`
	AttrName string   `xml:"attr.name,attr"`
	AttrType string   `xml:"attr.type,attr"`
}

type graphmlData struct {
	XMLName xml.Name `xml:"data"`
	Key     string   `xml:"key,attr"`
	Value   string   `xml:",chardata"`
}

type graphmlNode struct {
	XMLName xml.Name      `xml:"node"`
	ID      string        `xml:"id,attr"`
	Data    []graphmlData `xml:"data"`
}

type graphmlGraph struct {
	XMLName xml.Name      `xml:"graph"`
	EdgeDef string        `xml:"edgedefault,attr"`
	Nodes   []graphmlNode `xml:"node"`
}

type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

// WriteGraphML writes every UnitigNode and DecisionNode as a <node> element
// with its attributes as <data> children. Per spec §9's Open Question
// resolution, no edges are emitted.
func WriteGraphML(w io.Writer, store *cdbg.Store) error {
	doc := graphmlDoc{
		Keys: []graphmlKey{
			{ID: "kind", For: "node", AttrName: "kind", AttrType: "string"},
			{ID: "meta", For: "node", AttrName: "meta", AttrType: "string"},
			{ID: "sequence", For: "node", AttrName: "sequence", AttrType: "string"},
			{ID: "length", For: "node", AttrName: "length", AttrType: "int"},
		},
		Graph: graphmlGraph{EdgeDef: "directed"},
	}

	store.EachUnitig(func(n cdbg.UnitigNode) {
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphmlNode{
			ID: fmt.Sprintf("unitig_%d", n.ID),
			Data: []graphmlData{
				{Key: "kind", Value: "unitig"},
				{Key: "meta", Value: n.Meta.String()},
				{Key: "sequence", Value: n.Sequence},
				{Key: "length", Value: fmt.Sprintf("%d", len(n.Sequence))},
			},
		})
	})
	store.EachDnode(func(d cdbg.DecisionNode) {
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphmlNode{
			ID: fmt.Sprintf("dnode_%d", d.ID),
			Data: []graphmlData{
				{Key: "kind", Value: "decision"},
				{Key: "sequence", Value: d.Kmer},
				{Key: "length", Value: fmt.Sprintf("%d", len(d.Kmer))},
			},
		})
	})

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(doc)
}
