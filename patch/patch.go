// SPDX-License-Identifier: MIT

package patch

import (
	"encoding/binary"
	"fmt"

	"github.com/golang/glog"

	"ff7bin/archive"
	"ff7bin/lzs"
)

// FieldPatchFunc mutates one decompressed field resource. buf is a private
// working copy; the callback returns the buffer to keep (which may be a
// reallocation) and whether it changed anything.
type FieldPatchFunc func(name string, buf []byte) ([]byte, bool)

// SectionPatchFunc mutates one decompressed kernel section.
type SectionPatchFunc func(dirID uint16, index int, data []byte) ([]byte, bool)

// Result is the outcome of one container pass. Exact is true when no entry
// was replaced, i.e. Archive reproduces the input byte-for-byte; callers
// use it as a regression check.
type Result struct {
	Archive []byte
	Exact   bool
	Patched []string
}

// PatchFieldScripts walks every entry of an LGP field archive, hands each
// decodable entry to fn and rebuilds the archive with the changed entries
// re-compressed behind their u32 size header. Entries that fail to parse
// or decompress are skipped; only a malformed top-level container is fatal.
func PatchFieldScripts(flevel []byte, fn FieldPatchFunc) (*Result, error) {
	l, err := archive.ParseLgp(flevel)
	if err != nil {
		return nil, fmt.Errorf("field archive: %w", err)
	}

	replacements := make(map[string][]byte)
	var patched []string

	for i := range l.Entries {
		name, body, err := l.EntryBody(flevel, i)
		if err != nil {
			glog.Warningf("field entry %d: %v", i, err)
			continue
		}

		raw, err := lzs.Decompress(body)
		if err != nil {
			// Not every entry holds a compressed script.
			glog.V(2).Infof("skipping %s: %v", name, err)
			continue
		}

		out, changed := fn(name, raw)
		if !changed {
			continue
		}

		comp, err := lzs.Compress(out)
		if err != nil {
			glog.Warningf("recompressing %s: %v", name, err)
			continue
		}

		entry := make([]byte, 0, 4+len(comp))
		entry = binary.LittleEndian.AppendUint32(entry, uint32(len(comp)))
		entry = append(entry, comp...)

		replacements[name] = entry
		patched = append(patched, name)
	}

	rebuilt, err := l.Rebuild(flevel, replacements)
	if err != nil {
		return nil, fmt.Errorf("field archive: %w", err)
	}

	return &Result{
		Archive: rebuilt,
		Exact:   len(replacements) == 0,
		Patched: patched,
	}, nil
}

// PatchKernelSections is the kernel-side counterpart: every section is
// inflated, offered to fn and re-gzipped when changed. A section whose new
// content overflows the 16-bit size fields is skipped with a diagnostic
// rather than failing the run.
func PatchKernelSections(kernel []byte, fn SectionPatchFunc) (*Result, error) {
	k, err := archive.ParseKernel(kernel)
	if err != nil {
		return nil, fmt.Errorf("kernel archive: %w", err)
	}

	var patched []string
	for _, s := range k.Sections {
		data, err := archive.DecompressSection(s)
		if err != nil {
			glog.Warningf("kernel section %d/%d: %v", s.DirID, s.Index, err)
			continue
		}

		out, changed := fn(s.DirID, s.Index, data)
		if !changed {
			continue
		}

		if err := k.ReplaceSection(s.DirID, s.Index, out); err != nil {
			glog.Warningf("kernel section %d/%d: %v", s.DirID, s.Index, err)
			continue
		}

		patched = append(patched, fmt.Sprintf("%d/%d", s.DirID, s.Index))
	}

	rebuilt, err := k.Rebuild()
	if err != nil {
		return nil, fmt.Errorf("kernel archive: %w", err)
	}

	return &Result{
		Archive: rebuilt,
		Exact:   len(patched) == 0,
		Patched: patched,
	}, nil
}
