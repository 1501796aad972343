package engine

import "github.com/doctordisrespect/narsil-mcp/internal/errs"

// SBOMComponent is one entry in GenerateSBOM's minimal component list:
// just the import path this server actually has (no version or
// publisher, since nothing in the indexing pipeline resolves a lockfile
// today).
type SBOMComponent struct {
	Name string `json:"name"`
	Type string `json:"type"` // always "library" — no finer classification is available
}

// GenerateSBOM returns a minimal CycloneDX-shaped component list built
// from Dependencies: every distinct import path referenced in the repo.
// It carries no version, license, or publisher metadata — that would
// require parsing each language's lockfile format, which indexFile
// never does.
func (e *Engine) GenerateSBOM(repoName string) ([]SBOMComponent, error) {
	deps, err := e.Dependencies(repoName)
	if err != nil {
		return nil, err
	}
	out := make([]SBOMComponent, 0, len(deps))
	for _, d := range deps {
		out = append(out, SBOMComponent{Name: d, Type: "library"})
	}
	return out, nil
}

// CheckDependencies is GenerateSBOM's component list, named for the
// dependency-inventory tool rather than the SBOM-export tool; the two
// differ only in framing, not in what they compute.
func (e *Engine) CheckDependencies(repoName string) ([]SBOMComponent, error) {
	return e.GenerateSBOM(repoName)
}

// CheckLicenses always fails: license identification needs a
// package-registry lookup per dependency (npm/PyPI/crates.io/etc.),
// which this server has no client for.
func (e *Engine) CheckLicenses(repoName string) error {
	return errs.New(errs.Transient, "license checking requires a package-registry client this server does not embed")
}

// FindUpgradePath always fails: computing a safe upgrade path needs a
// version-resolution feed (a registry's published version history and
// changelog/advisory data), which this server has no client for.
func (e *Engine) FindUpgradePath(repoName, dependency string) error {
	return errs.New(errs.Transient, "upgrade-path resolution requires a package-registry client this server does not embed")
}
