// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxUploadFileSize caps individual files collected for upload. Bigger files
// are almost never source code and would bloat the server-side index.
const MaxUploadFileSize = 2 * 1024 * 1024

// uploadExtensions are the source file types worth indexing.
var uploadExtensions = map[string]bool{
	".py":    true,
	".go":    true,
	".js":    true,
	".jsx":   true,
	".ts":    true,
	".tsx":   true,
	".java":  true,
	".rs":    true,
	".c":     true,
	".h":     true,
	".cpp":   true,
	".hpp":   true,
	".cs":    true,
	".rb":    true,
	".php":   true,
	".swift": true,
	".kt":    true,
	".scala": true,
	".md":    true,
	".txt":   true,
	".toml":  true,
	".yaml":  true,
	".yml":   true,
	".json":  true,
}

// CollectLocal walks root and gathers uploadable source files. A single
// file path is accepted directly regardless of extension. Directory walks
// skip ignored directories, unknown extensions, and oversized files.
func CollectLocal(root string) ([]UploadItem, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		content, err := os.ReadFile(root)
		if err != nil {
			return nil, err
		}
		return []UploadItem{{Name: filepath.Base(root), Content: content}}, nil
	}

	var items []UploadItem
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if info.IsDir() {
			if ignoredDirs[filepath.Base(path)] {
				return filepath.SkipDir
			}
			return nil
		}
		if !uploadExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if info.Size() > MaxUploadFileSize {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = filepath.Base(path)
		}
		items = append(items, UploadItem{Name: filepath.ToSlash(rel), Content: content})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no uploadable source files under %s", root)
	}
	return items, nil
}
