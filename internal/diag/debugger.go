package diag

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
)

// renderDebugger attaches the configured debugger to this process and dumps
// every thread backtrace into the diagnostic stream. It blocks until the
// debugger exits. Any failure reduces to one explanatory line; the warning
// path continues normally.
func renderDebugger(out io.Writer, path string) {
	exe, err := os.Executable()
	if err != nil {
		fmt.Fprintf(out, "Can't print backtrace with %s: can't locate own executable: %v\n", path, err)
		return
	}
	cmd := exec.Command(path, "--batch", "-n", "-ex", "thread", "-ex", "bt", exe, strconv.Itoa(os.Getpid()))
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(out, "Can't print backtrace with %s: %v\n", path, err)
	}
}
