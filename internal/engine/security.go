package engine

import "github.com/doctordisrespect/narsil-mcp/internal/secscan"

// ScanSecurity runs the secscan heuristic rule set over every indexed
// chunk in repoName and returns every match found, file order then line
// order.
func (e *Engine) ScanSecurity(repoName string) ([]secscan.Finding, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	var out []secscan.Finding
	for path, chunks := range idx.chunks {
		for _, c := range chunks {
			out = append(out, secscan.Scan(path, c.Content, c.StartLine)...)
		}
	}
	return out, nil
}

// FindInjectionVulnerabilities is ScanSecurity filtered to the
// injection-family rules (CWE-89 SQL injection, CWE-78 command
// injection, CWE-95 eval injection).
func (e *Engine) FindInjectionVulnerabilities(repoName string) ([]secscan.Finding, error) {
	all, err := e.ScanSecurity(repoName)
	if err != nil {
		return nil, err
	}
	var out []secscan.Finding
	for _, f := range all {
		if f.CWE == "CWE-89" || f.CWE == "CWE-78" || f.CWE == "CWE-95" {
			out = append(out, f)
		}
	}
	return out, nil
}

// CheckOWASPTop10 buckets ScanSecurity's findings by their OWASP Top 10
// category.
func (e *Engine) CheckOWASPTop10(repoName string) (map[string][]secscan.Finding, error) {
	all, err := e.ScanSecurity(repoName)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]secscan.Finding)
	for _, f := range all {
		out[f.OWASP] = append(out[f.OWASP], f)
	}
	return out, nil
}

// CheckCWETop25 buckets ScanSecurity's findings by CWE identifier.
func (e *Engine) CheckCWETop25(repoName string) (map[string][]secscan.Finding, error) {
	all, err := e.ScanSecurity(repoName)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]secscan.Finding)
	for _, f := range all {
		out[f.CWE] = append(out[f.CWE], f)
	}
	return out, nil
}

// SecuritySummary is the aggregate ScanSecurity count GetSecuritySummary
// reports.
type SecuritySummary struct {
	Total       int            `json:"total"`
	BySeverity  map[string]int `json:"by_severity"`
	ByOWASP     map[string]int `json:"by_owasp"`
}

// GetSecuritySummary reduces ScanSecurity's findings to counts, for a
// quick repo-health read without the full finding list.
func (e *Engine) GetSecuritySummary(repoName string) (SecuritySummary, error) {
	all, err := e.ScanSecurity(repoName)
	if err != nil {
		return SecuritySummary{}, err
	}
	out := SecuritySummary{Total: len(all), BySeverity: map[string]int{}, ByOWASP: map[string]int{}}
	for _, f := range all {
		out.BySeverity[string(f.Severity)]++
		out.ByOWASP[f.OWASP]++
	}
	return out, nil
}

// ExplainVulnerability looks up a secscan rule by ID and returns its
// description — the prose behind explain_vulnerability.
func (e *Engine) ExplainVulnerability(ruleID string) (secscan.Rule, bool) {
	return secscan.ByRuleID(ruleID)
}

// SuggestFix looks up a secscan rule by ID and returns its fix
// suggestion.
func (e *Engine) SuggestFix(ruleID string) (string, bool) {
	r, ok := secscan.ByRuleID(ruleID)
	if !ok {
		return "", false
	}
	return r.Suggestion, true
}
