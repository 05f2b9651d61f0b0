// Package difftool invokes external textual diff/merge utilities on
// behalf of the Merge Planner. These tools are collaborators per spec
// §6: the core only shells out to them and interprets their exit code;
// it never implements text diffing itself.
package difftool

import (
	"bytes"
	"os"
	"os/exec"

	"github.com/javanhut/ugit/internal/ugiterr"
)

// Result is the outcome of invoking an external tool.
type Result struct {
	Output   []byte
	ExitCode int
}

// Clean reports whether the tool reported no conflicts (exit code 0).
func (r Result) Clean() bool { return r.ExitCode == 0 }

// run executes name with args, scoping a temporary directory for the
// tool's own use (some merge tools want scratch files) and guaranteeing
// its removal on every exit path, including when the tool itself fails.
func run(name string, args []string, dir string) (Result, error) {
	tmp, err := os.MkdirTemp(dir, "ugit-tool-*")
	if err != nil {
		return Result{}, ugiterr.Wrap(ugiterr.IOError, err, "create scratch dir for %s", name)
	}
	defer os.RemoveAll(tmp)

	cmd := exec.Command(name, args...)
	cmd.Dir = tmp
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err = cmd.Run()
	if err == nil {
		return Result{Output: out.Bytes(), ExitCode: 0}, nil
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return Result{}, ugiterr.Wrap(ugiterr.ToolError, err, "run %s", name)
	}
	code := exitErr.ExitCode()
	if code == 1 {
		// Conflicts (or, for a diff tool, differences), not a tool failure.
		return Result{Output: out.Bytes(), ExitCode: 1}, nil
	}
	return Result{}, ugiterr.Wrap(ugiterr.ToolError, err, "%s exited %d", name, code)
}

// ThreeWayMerge runs an external three-way text merge of base/ours/theirs,
// using the conventional "<tool> <ours> <base> <theirs>" invocation
// (compatible with diff3/git-merge-file-style tools). Such tools write the
// merged text, with any conflict markers, back into oursPath. Exit 0 means
// clean, 1 means conflicts, anything else is ToolError.
func ThreeWayMerge(tool, oursPath, basePath, theirsPath, workDir string) (Result, error) {
	return run(tool, []string{oursPath, basePath, theirsPath}, workDir)
}

// UnifiedDiff runs an external two-way unified-diff utility over a and b.
func UnifiedDiff(tool, aPath, bPath, workDir string) (Result, error) {
	return run(tool, []string{"-u", aPath, bPath}, workDir)
}
