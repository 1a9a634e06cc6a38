package osutil

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/kballard/go-shellquote"
)

const (
	Windows = "windows"
	Darwin  = "darwin"
)

const (
	DirPermission  = 0o755
	FilePermission = 0o600
)

// Editor returns the user's preferred text editor.
func Editor() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}

	if runtime.GOOS == Windows {
		return "C:\\Windows\\system32\\notepad.exe"
	}

	return "nano"
}

// Command splits a shell style command line into an executable command. It
// returns nil for an empty line.
func Command(line string, extraEnv ...string) (*exec.Cmd, error) {
	if line == "" {
		return nil, nil
	}

	args, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("unable to parse command %q: %w", line, err)
	}

	if len(args) == 0 {
		return nil, nil
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Env = append(os.Environ(), extraEnv...)

	return cmd, nil
}
