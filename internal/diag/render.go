package diag

import (
	"fmt"
	"io"
	"runtime"
)

// frameInfo is one resolved program counter.
type frameInfo struct {
	fn   string
	off  uintptr
	file string
	line int
	ok   bool
}

// resolveFunc resolves a captured pc to symbol information.
type resolveFunc func(pc uintptr) frameInfo

// runtimeResolve symbolizes a pc through the runtime's function tables.
// Captured pcs are return addresses, so the lookup uses pc-1 to land inside
// the call instruction.
func runtimeResolve(pc uintptr) frameInfo {
	if pc == 0 {
		return frameInfo{}
	}
	fn := runtime.FuncForPC(pc - 1)
	if fn == nil {
		return frameInfo{}
	}
	file, line := fn.FileLine(pc - 1)
	return frameInfo{
		fn:   fn.Name(),
		off:  pc - 1 - fn.Entry(),
		file: file,
		line: line,
		ok:   true,
	}
}

// renderAddrs writes one raw address per line, verbatim, unnumbered.
func renderAddrs(out io.Writer, pcs []uintptr) {
	for _, pc := range pcs {
		fmt.Fprintf(out, "%#x\n", pc)
	}
}

// renderSymbols writes numbered symbolized frames starting at shift. A pc
// that fails to resolve prints as ??; when the whole segment fails, the
// segment degrades to raw address lines.
func renderSymbols(out io.Writer, pcs []uintptr, shift int, resolve resolveFunc) {
	if len(pcs) == 0 {
		return
	}
	if resolve == nil {
		resolve = runtimeResolve
	}
	infos := make([]frameInfo, len(pcs))
	resolved := false
	for i, pc := range pcs {
		infos[i] = resolve(pc)
		if infos[i].ok {
			resolved = true
		}
	}
	if !resolved {
		renderAddrs(out, pcs)
		return
	}
	for i, pc := range pcs {
		info := infos[i]
		if !info.ok {
			fmt.Fprintf(out, "#%d  %#x in ??\n", shift+i, pc)
			continue
		}
		fmt.Fprintf(out, "#%d  %#x in %s+%#x at %s:%d\n", shift+i, pc, info.fn, info.off, info.file, info.line)
	}
}
