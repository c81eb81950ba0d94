// Package attach merges JSON config fragments into agent config files.
// Merge rule: objects deep-merge, arrays and primitives replace, keys
// absent from the fragment are preserved.
package attach

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DeepMerge merges source into target in place and returns target.
// Nested objects merge recursively; any other source value replaces the
// target value wholesale.
func DeepMerge(target, source map[string]any) map[string]any {
	for key, sval := range source {
		if sobj, ok := sval.(map[string]any); ok {
			tobj, ok := target[key].(map[string]any)
			if !ok {
				tobj = map[string]any{}
				target[key] = tobj
			}
			DeepMerge(tobj, sobj)
			continue
		}
		target[key] = sval
	}
	return target
}

func loadObject(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("JSON root must be an object: %s: %w", path, err)
	}
	return obj, nil
}

// backupFile copies the target aside with a timestamped .bak suffix
// before it is overwritten.
func backupFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	bak := fmt.Sprintf("%s.bak.%s", path, time.Now().Format("20060102150405"))
	if err := os.WriteFile(bak, data, 0644); err != nil {
		return "", err
	}
	return bak, nil
}

// atomicWriteJSON writes the merged object through a temp file and
// rename so a crash cannot leave a truncated config behind.
func atomicWriteJSON(path string, obj map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}
	tmp := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Options controls one attach operation.
type Options struct {
	MakeBackup bool
	DryRun     bool
}

// Attach merges the source fragment into the target config file.
// Returns the backup path when one was made, or "" otherwise.
func Attach(sourcePath, targetPath string, opts Options) (string, error) {
	source, err := loadObject(sourcePath)
	if err != nil {
		return "", err
	}

	target := map[string]any{}
	targetExists := false
	if _, err := os.Stat(targetPath); err == nil {
		targetExists = true
		target, err = loadObject(targetPath)
		if err != nil {
			return "", err
		}
	}

	merged := DeepMerge(target, source)
	if opts.DryRun {
		return "", nil
	}

	bak := ""
	if opts.MakeBackup && targetExists {
		bak, err = backupFile(targetPath)
		if err != nil {
			return "", err
		}
	}

	if err := atomicWriteJSON(targetPath, merged); err != nil {
		return "", err
	}
	return bak, nil
}
