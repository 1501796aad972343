package engine

import (
	"fmt"

	"github.com/doctordisrespect/narsil-mcp/internal/errs"
)

// Git-backed tools (blame, history, hotspots, contributors, diffs,
// branch info) all need a git plumbing client this server doesn't
// embed — the indexing pipeline reads working-tree files, not repo
// history. Every method here is gated behind the "git" feature flag at
// the tool-filter layer (model.EngineFlags.Git / --git), so these are
// only reachable at all once an operator has opted in, and even then
// they report the missing backend rather than fabricate history.
func gitUnsupported(op string) error {
	return errs.New(errs.Transient, fmt.Sprintf("%s requires a git plumbing client this server does not embed", op))
}

func (e *Engine) GetBlame(repoName, path string) error          { return gitUnsupported("get_blame") }
func (e *Engine) GetFileHistory(repoName, path string) error    { return gitUnsupported("get_file_history") }
func (e *Engine) GetRecentChanges(repoName string) error        { return gitUnsupported("get_recent_changes") }
func (e *Engine) GetHotspots(repoName string) error             { return gitUnsupported("get_hotspots") }
func (e *Engine) GetContributors(repoName string) error         { return gitUnsupported("get_contributors") }
func (e *Engine) GetCommitDiff(repoName, commit string) error   { return gitUnsupported("get_commit_diff") }
func (e *Engine) GetSymbolHistory(repoName, symbol string) error { return gitUnsupported("get_symbol_history") }
func (e *Engine) GetBranchInfo(repoName string) error           { return gitUnsupported("get_branch_info") }
func (e *Engine) GetModifiedFiles(repoName string) error        { return gitUnsupported("get_modified_files") }
