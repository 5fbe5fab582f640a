package cache

// LayoutKeyOpts are the inputs besides the scene that change placement.
type LayoutKeyOpts struct {
	ColumnWidth float64 `json:"column_width"`
	ColumnGap   float64 `json:"column_gap"`
	RowGap      float64 `json:"row_gap"`
}

// ArtifactKeyOpts are the inputs besides the layout that change a
// rendered file.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Style  string `json:"style,omitempty"`
	Guides bool   `json:"guides,omitempty"`
	Labels bool   `json:"labels,omitempty"`
	Flow   bool   `json:"flow,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key of the layout computed for a scene.
	LayoutKey(sceneHash string, opts LayoutKeyOpts) string
	// ArtifactKey returns the key of a file rendered from a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(sceneHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sceneHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
