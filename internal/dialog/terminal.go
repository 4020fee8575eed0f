package dialog

import (
	"fmt"
	"os"
	"runtime"
)

// OpenTerminal opens the controlling terminal for reading keys and drawing.
// The bridge detaches the presentation process's standard streams, so the
// form has to talk to the terminal device directly.
func OpenTerminal() (in *os.File, out *os.File, err error) {
	inPath, outPath := "/dev/tty", "/dev/tty"
	if runtime.GOOS == "windows" {
		inPath, outPath = "CONIN$", "CONOUT$"
	}

	in, err = os.OpenFile(inPath, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open terminal input: %w", err)
	}

	if outPath == inPath {
		return in, in, nil
	}

	out, err = os.OpenFile(outPath, os.O_RDWR, 0)
	if err != nil {
		_ = in.Close()
		return nil, nil, fmt.Errorf("failed to open terminal output: %w", err)
	}
	return in, out, nil
}
