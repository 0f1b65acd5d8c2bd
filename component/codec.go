package component

import (
	"io"

	"github.com/nexuslink/nexuslink/registry"
)

// RawDependency mirrors the interchange format's dependency entry (spec
// §6): {id, version_req, optional, resolved_version?}.
type RawDependency struct {
	ID              string `json:"id"`
	VersionReq      string `json:"version_req"`
	Optional        bool   `json:"optional"`
	ResolvedVersion string `json:"resolved_version,omitempty"`
}

// RawSymbol mirrors one entry of exported_symbols/imported_symbols in the
// enriched form: {name, version, kind}.
type RawSymbol struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Kind    int    `json:"kind"`
}

// RawDocument is the top-level interchange document of spec §6. Exported
// and Imported are typed as `interface{}` at the Codec boundary so a
// legacy document (bare string array) and an enriched document (RawSymbol
// array) both decode before FromRaw normalizes them - see
// decodeSymbolList.
type RawDocument struct {
	ID              string          `json:"id"`
	Version         string          `json:"version"`
	Description     string          `json:"description"`
	Dependencies    []RawDependency `json:"dependencies"`
	ExportedSymbols interface{}     `json:"exported_symbols"`
	ImportedSymbols interface{}     `json:"imported_symbols"`
	MemoryFootprint int64           `json:"memory_footprint"`
	AvgLoadTimeMS   float64         `json:"avg_load_time_ms"`
	UsageCount      int             `json:"usage_count"`
	LastUsed        int64           `json:"last_used"`
}

// Codec is the narrow interface the out-of-scope "JSON serialization of
// metadata" collaborator implements (spec §1). The core never imports an
// encoding package directly to move a Component across a process boundary
// - it depends on this interface instead, and JSONCodec (codec_json.go)
// is the in-repo reference implementation, grounded on the same stdlib
// encoding/json golang/dep's own manifest.go/lock.go use for this exact
// concern.
type Codec interface {
	Decode(r io.Reader) (*RawDocument, error)
	Encode(w io.Writer, doc *RawDocument) error
}

// ParseError reports a document that could not be decoded into a
// Component.
type ParseError struct {
	Path  string
	Cause error
}

func (e *ParseError) Error() string { return "parse " + e.Path + ": " + e.Cause.Error() }
func (e *ParseError) Unwrap() error { return e.Cause }

// decodeSymbolList accepts both the legacy form (a JSON array of bare
// strings) and the enriched form (a JSON array of {name,version,kind}
// objects), per spec §4.3 / §6. defaultVersion fills in a missing version;
// a missing kind defaults to KindFunction.
func decodeSymbolList(raw interface{}, defaultVersion string) []ExportSpec {
	arr, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]ExportSpec, 0, len(arr))
	for _, item := range arr {
		switch v := item.(type) {
		case string:
			out = append(out, ExportSpec{Name: v, Version: defaultVersion, Kind: registry.KindFunction})
		case map[string]interface{}:
			name, _ := v["name"].(string)
			ver, _ := v["version"].(string)
			if ver == "" {
				ver = defaultVersion
			}
			kind := registry.KindFunction
			if kf, ok := v["kind"].(float64); ok {
				kind = registry.Kind(kf)
			}
			out = append(out, ExportSpec{Name: name, Version: ver, Kind: kind})
		}
	}
	return out
}

func decodeImportList(raw interface{}) []ImportSpec {
	arr, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]ImportSpec, 0, len(arr))
	for _, item := range arr {
		switch v := item.(type) {
		case string:
			out = append(out, ImportSpec{Name: v, Kind: registry.KindFunction, Constraint: "*"})
		case map[string]interface{}:
			name, _ := v["name"].(string)
			con, _ := v["version"].(string)
			if con == "" {
				con = "*"
			}
			kind := registry.KindFunction
			if kf, ok := v["kind"].(float64); ok {
				kind = registry.Kind(kf)
			}
			out = append(out, ImportSpec{Name: name, Kind: kind, Constraint: con})
		}
	}
	return out
}

// FromRaw normalizes a decoded RawDocument into a Component, applying the
// legacy-form defaults (missing version -> component version, missing
// kind -> function).
func FromRaw(doc *RawDocument) *Component {
	c := New(doc.ID, doc.Version, doc.Description)
	for _, d := range doc.Dependencies {
		c.AddDependency(d.ID, d.VersionReq, d.Optional)
	}
	c.Exports = decodeSymbolList(doc.ExportedSymbols, doc.Version)
	for _, imp := range decodeImportList(doc.ImportedSymbols) {
		c.AddImport(imp.Name, imp.Constraint, imp.Kind)
	}
	c.Metrics = Metrics{Footprint: doc.MemoryFootprint, AvgLoadMS: doc.AvgLoadTimeMS}
	c.Usage.Count = doc.UsageCount
	return c
}

// ToRaw renders a Component into the enriched interchange form (spec §6);
// Save always writes the enriched form, never the legacy bare-string one.
func ToRaw(c *Component) *RawDocument {
	doc := &RawDocument{
		ID:              c.ID,
		Version:         c.Version,
		Description:     c.Description,
		MemoryFootprint: c.Metrics.Footprint,
		AvgLoadTimeMS:   c.Metrics.AvgLoadMS,
		UsageCount:      c.Usage.Count,
	}
	for _, d := range c.Dependencies {
		doc.Dependencies = append(doc.Dependencies, RawDependency{ID: d.TargetID, VersionReq: d.Version, Optional: d.Optional})
	}
	exported := make([]RawSymbol, 0, len(c.Exports))
	for _, e := range c.Exports {
		exported = append(exported, RawSymbol{Name: e.Name, Version: e.Version, Kind: int(e.Kind)})
	}
	doc.ExportedSymbols = exported
	imported := make([]RawSymbol, 0, len(c.Imports))
	for _, imp := range c.Imports {
		imported = append(imported, RawSymbol{Name: imp.Name, Version: imp.Constraint, Kind: int(imp.Kind)})
	}
	doc.ImportedSymbols = imported
	if !c.Usage.LastUsed.IsZero() {
		doc.LastUsed = c.Usage.LastUsed.Unix()
	}
	return doc
}
