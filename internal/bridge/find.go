package bridge

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// EnvBridgePath overrides the helper lookup.
const EnvBridgePath = "TELETERM_BRIDGE_PATH"

const helperName = "teleterm-bridge"

// Find locates the helper executable.
//
// Lookup order:
// - command, when configured (a path, or a name looked up on PATH)
// - TELETERM_BRIDGE_PATH
// - teleterm-bridge on PATH
// - next to the running executable:
//   - teleterm-bridge
//   - teleterm-bridge_<goos>_<goarch>
func Find(command string) (string, error) {
	if command != "" {
		if strings.ContainsRune(command, os.PathSeparator) {
			if err := assertUsableBinary(command); err != nil {
				return "", fmt.Errorf("bridge_command %q is not usable: %w", command, err)
			}
			return command, nil
		}
		path, err := exec.LookPath(command)
		if err != nil {
			return "", fmt.Errorf("bridge_command %q: %w", command, err)
		}
		return path, nil
	}

	if p := os.Getenv(EnvBridgePath); p != "" {
		if err := assertUsableBinary(p); err != nil {
			return "", fmt.Errorf("%s=%q is not usable: %w", EnvBridgePath, p, err)
		}
		return p, nil
	}

	if path, err := exec.LookPath(helperName); err == nil {
		return path, nil
	}

	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		suffix := runtime.GOOS + "_" + runtime.GOARCH
		candidates := []string{
			filepath.Join(dir, helperName),
			filepath.Join(dir, helperName+"_"+suffix),
		}
		if runtime.GOOS == "windows" {
			candidates = append(candidates,
				filepath.Join(dir, helperName+".exe"),
				filepath.Join(dir, helperName+"_"+suffix+".exe"),
			)
		}
		for _, c := range candidates {
			if err := assertUsableBinary(c); err == nil {
				return c, nil
			}
		}
	}

	return "", fmt.Errorf(
		"bridge helper not found.\n\nteleterm looks for:\n- bridge_command in app.toml\n- $%s\n- `%s` on your PATH\n- `%s` next to the teleterm executable\n\nUse backend = \"local\" to run without a helper.",
		EnvBridgePath, helperName, helperName,
	)
}

func assertUsableBinary(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("is a directory")
	}
	if runtime.GOOS == "windows" {
		return nil
	}
	if st.Mode()&0o111 == 0 {
		return fmt.Errorf("not executable")
	}
	return nil
}
