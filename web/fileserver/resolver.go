/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package fileserver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caiflower/staticweb/web/e"
)

// Resolver maps request paths onto the canonical document root.
type Resolver struct {
	root string
	fs   FileSystem
}

// NewResolver canonicalizes root once. root must be an existing directory.
func NewResolver(root string, fsys FileSystem) (*Resolver, error) {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	canonical, err := fsys.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("document root %s: %w", root, err)
	}
	info, err := fsys.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("document root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document root %s is not a directory", root)
	}

	return &Resolver{root: canonical, fs: fsys}, nil
}

func (r *Resolver) Root() string {
	return r.root
}

// Resolve joins reqPath onto the root and canonicalizes it. The target does not have to exist.
// Results outside the root fail with PathTraversal, the check runs on the canonical path.
func (r *Resolver) Resolve(reqPath string) (string, error) {
	if strings.IndexByte(reqPath, 0) >= 0 {
		return "", e.Newf(e.PathTraversal, "path %q contains NUL", reqPath)
	}

	joined := filepath.Join(r.root, filepath.FromSlash(reqPath))
	canonical, err := r.canonicalize(joined)
	if err != nil {
		return "", e.New(e.FilesystemError, "canonicalize "+reqPath, err)
	}
	if !r.contains(canonical) {
		return "", e.Newf(e.PathTraversal, "path %q resolves outside of the document root", reqPath)
	}
	return canonical, nil
}

// canonicalize evaluates symlinks on the longest existing prefix of p and appends the missing rest.
func (r *Resolver) canonicalize(p string) (string, error) {
	var missing []string
	cur := p
	for {
		real, err := r.fs.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(append([]string{real}, missing...)...), nil
		}
		if !isNotExist(err) {
			return "", err
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return p, nil
		}
		missing = append([]string{filepath.Base(cur)}, missing...)
		cur = parent
	}
}

func (r *Resolver) contains(p string) bool {
	rel, err := filepath.Rel(r.root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
