// SPDX-License-Identifier: MIT

/*
Package patch drives resource-level patching of the two game containers.

The package owns no randomization policy. A caller supplies a callback that
mutates one decompressed resource at a time; patch handles the surrounding
plumbing: container parsing, per-entry codec work, replacement registration
and the final rebuild. Container-level failures abort the whole run, while
a single malformed or undecodable entry only skips that entry.

Deterministic choices are supported through seed derivation helpers: every
resource gets its own seed from the caller's master seed and the resource
name, so a rerun with the same seed and inputs reproduces identical bytes.
*/
package patch
