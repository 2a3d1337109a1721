package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SchemaVersion is written to every artifact. Artifacts without a version
// are read as this version.
const SchemaVersion = "1"

type artifact struct {
	SchemaVersion string             `json:"schemaVersion,omitempty"`
	Elements      []elementRecord    `json:"elements"`
	Connections   []connectionRecord `json:"connections"`
}

type elementRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type connectionRecord struct {
	StartID string `json:"startId"`
	EndID   string `json:"endId"`
	Type    string `json:"type"`
}

// Marshal renders g as an indented JSON artifact. Elements and connections
// appear in the order of Graph.Elements and Graph.Connections.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes g to w as a JSON artifact.
func Encode(w io.Writer, g *Graph) error {
	a := artifact{
		SchemaVersion: SchemaVersion,
		Elements:      make([]elementRecord, 0, len(g.elements)),
		Connections:   make([]connectionRecord, 0, len(g.connections)),
	}

	for _, e := range g.Elements() {
		if !e.Kind.Valid() {
			return &UnknownVariantError{Context: "element", Value: e.Kind.String()}
		}
		a.Elements = append(a.Elements, elementRecord{ID: e.ID, Name: e.Name, Type: e.Kind.String()})
	}
	for _, c := range g.Connections() {
		if !c.Kind.Valid() {
			return &UnknownVariantError{Context: "connection", Value: c.Kind.String()}
		}
		a.Connections = append(a.Connections, connectionRecord{StartID: c.StartID, EndID: c.EndID, Type: c.Kind.String()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}
	return nil
}

// Unmarshal parses a JSON artifact.
func Unmarshal(data []byte) (*Graph, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a JSON artifact from r and rebuilds its graph. Unknown
// discriminators and connections referencing ids absent from the
// artifact's own elements abort the load.
func Decode(r io.Reader) (*Graph, error) {
	var a artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}
	if a.SchemaVersion != "" && a.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSchema, a.SchemaVersion)
	}

	g := NewGraph()
	for i, rec := range a.Elements {
		kind, err := ParseElementKind(rec.Type)
		if err != nil {
			return nil, fmt.Errorf("element %d (%s): %w", i, rec.ID, err)
		}
		if err := g.AddElement(Element{ID: rec.ID, Name: rec.Name, Kind: kind}); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	for i, rec := range a.Connections {
		kind, err := ParseConnectionKind(rec.Type)
		if err != nil {
			return nil, fmt.Errorf("connection %d: %w", i, err)
		}
		if err := g.AddConnection(Connection{Kind: kind, StartID: rec.StartID, EndID: rec.EndID}); err != nil {
			return nil, fmt.Errorf("connection %d: %w", i, err)
		}
	}
	return g, nil
}

// WriteFile persists g at path. The file and its parent directories are
// created when missing; an existing file is truncated and fully replaced.
func WriteFile(path string, g *Graph) error {
	data, err := Marshal(g)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &OutputIOError{Path: path, Op: "create", Err: err}
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return &OutputIOError{Path: path, Op: "create", Err: err}
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return &OutputIOError{Path: path, Op: "write", Err: err}
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return &OutputIOError{Path: path, Op: "sync", Err: err}
	}
	if err := f.Close(); err != nil {
		return &OutputIOError{Path: path, Op: "close", Err: err}
	}
	return nil
}

// ReadFile loads the artifact stored at path.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return g, nil
}
